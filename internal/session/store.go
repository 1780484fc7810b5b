package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/river-now/folio/internal/pages"
	"github.com/river-now/folio/kit/id"
)

// CookieName names the visitor cookie. It groups the sessions of one
// browser; every loaded document has a session of its own.
const CookieName = "folio_sid"

// Store keeps sessions in memory until they have been idle for the TTL.
type Store struct {
	deps  pages.Deps
	ttl   time.Duration
	cache *cache.Cache
}

// NewStore returns a store whose sessions share d. A non-positive ttl keeps
// sessions for the life of the process.
func NewStore(d pages.Deps, ttl time.Duration) *Store {
	exp, cleanup := ttl, ttl
	if ttl <= 0 {
		exp, cleanup = cache.NoExpiration, 0
	}
	c := cache.New(exp, cleanup)
	c.OnEvicted(func(_ string, v any) {
		if s, ok := v.(*Session); ok {
			s.Close()
		}
	})
	return &Store{deps: d, ttl: ttl, cache: c}
}

// Get returns session sid if it belongs to visitor, and renews its idle
// timer.
func (st *Store) Get(sid, visitor string) (*Session, bool) {
	v, ok := st.cache.Get(sid)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if s.visitor != visitor {
		return nil, false
	}
	st.cache.SetDefault(sid, s)
	return s, true
}

// Create starts a session for visitor under a fresh id.
func (st *Store) Create(visitor string) (*Session, error) {
	sid, err := id.Session()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	s, err := New(sid, st.deps)
	if err != nil {
		return nil, err
	}
	s.visitor = visitor
	st.cache.SetDefault(sid, s)
	return s, nil
}

// Visitor returns the visitor id from the request's cookie, or a new one
// when the cookie is missing or malformed. created reports whether the
// cookie must be set.
func (st *Store) Visitor(r *http.Request) (visitor string, created bool, err error) {
	if c, err := r.Cookie(CookieName); err == nil && id.IsSession(c.Value) {
		return c.Value, false, nil
	}
	visitor, err = id.Session()
	if err != nil {
		return "", false, fmt.Errorf("visitor id: %w", err)
	}
	return visitor, true, nil
}

// Cookie returns the cookie that carries visitor.
func (st *Store) Cookie(visitor string, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    visitor,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if st.ttl > 0 {
		c.MaxAge = int(st.ttl.Seconds())
	}
	return c
}

func (st *Store) Delete(sid string) {
	st.cache.Delete(sid)
}

func (st *Store) Len() int {
	return st.cache.ItemCount()
}

// Close ends every session.
func (st *Store) Close() {
	for sid := range st.cache.Items() {
		st.cache.Delete(sid)
	}
}
