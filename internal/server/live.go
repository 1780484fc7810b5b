package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/river-now/folio/internal/router"
	"github.com/river-now/folio/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// Links under these prefixes always load in the browser.
var passPrefixes = []string{"/content/", "/__folio/"}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// clientMessage is sent by the navigation client. Type "click" carries the
// anchor click; type "pop" carries the URL the browser moved to.
type clientMessage struct {
	Type string `json:"type"`
	router.Click
	URL string `json:"url"`
}

// serverMessage asks the client either to apply a snapshot ("render") or to
// load href itself ("follow").
type serverMessage struct {
	Type     string            `json:"type"`
	URL      string            `json:"url,omitempty"`
	Push     bool              `json:"push,omitempty"`
	Href     string            `json:"href,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
}

// liveConn serializes writes and drops replies that a newer message made
// obsolete.
type liveConn struct {
	ws   *websocket.Conn
	mu   sync.Mutex
	last atomic.Uint64
}

func (c *liveConn) write(msg serverMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(msg)
}

func (c *liveConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	sess, err := s.session(header, r, r.URL.Query().Get(SessionParam))
	if err != nil {
		s.fail(w, "Could not start session", err)
		return
	}
	ws, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	origin := &url.URL{Scheme: "http", Host: r.Host}
	if isSecure(r) {
		origin.Scheme = "https"
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := &liveConn{ws: ws}
	go func() {
		t := time.NewTicker(pingPeriod)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := conn.ping(); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			var syntax *json.SyntaxError
			if errors.As(err, &syntax) {
				s.log.Debug("Ignoring malformed live message", "error", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Live connection closed", "error", err)
			}
			return
		}
		seq := conn.last.Add(1)
		// Navigations run concurrently so a newer one cancels an older one
		// that is still loading.
		go s.handleLive(ctx, conn, sess, origin, seq, msg)
	}
}

func (s *Server) handleLive(ctx context.Context, conn *liveConn, sess *session.Session, origin *url.URL, seq uint64, msg clientMessage) {
	var (
		reply serverMessage
		err   error
	)
	switch msg.Type {
	case "click":
		path, ok := router.Intercept(msg.Click, origin, passPrefixes...)
		if !ok {
			reply = serverMessage{Type: "follow", Href: msg.Href}
			break
		}
		err = sess.Navigate(ctx, path)
		reply = serverMessage{Type: "render", URL: path, Push: true}
	case "pop":
		err = sess.Visit(ctx, msg.URL)
		reply = serverMessage{Type: "render", URL: msg.URL}
	default:
		s.log.Debug("Unknown live message", "type", msg.Type)
		return
	}
	if err != nil {
		s.log.Debug("Live navigation failed", "error", err)
	}
	if conn.last.Load() != seq {
		return
	}
	if reply.Type == "render" {
		snap := sess.Snapshot()
		reply.Snapshot = &snap
	}
	if err := conn.write(reply); err != nil {
		s.log.Debug("Live write failed", "error", err)
	}
}
