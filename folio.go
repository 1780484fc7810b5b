// Package folio re-exports the page lifecycle, router and content loader so
// other programs can embed a folio site without reaching into internal
// packages.
package folio

import (
	"log/slog"

	"github.com/river-now/folio/internal/app"
	"github.com/river-now/folio/internal/config"
	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/page"
	"github.com/river-now/folio/internal/router"
	"github.com/river-now/folio/kit/frontmatter"
)

/////////////////////////////////////////////////////////////////////
/////// PUBLIC API
/////////////////////////////////////////////////////////////////////

type (
	App         = app.App
	Config      = config.Config
	Page        = page.Page
	PageBase    = page.Base
	PageOptions = page.Options
	Controller  = page.Controller
	Router      = router.Router
	Params      = router.Params
	Matcher     = router.Matcher
	History     = router.History
	Loader      = content.Loader
	Content     = content.Content
	Index       = content.Index
	Frontmatter = frontmatter.Document
)

var (
	ErrUnknownPage   = page.ErrUnknownPage
	ErrDuplicatePage = page.ErrDuplicatePage
	ErrSuperseded    = page.ErrSuperseded
)

func NewPageBase(name, pattern string) PageBase { return page.NewBase(name, pattern) }

func NewController(log *slog.Logger) *Controller { return page.NewController(log) }

func NewRouter(h History, log *slog.Logger) *Router { return router.New(h, log) }

func NewMemoryHistory() History { return router.NewMemoryHistory() }

func Exact(path string) Matcher { return router.Exact(path) }

// Capture matches expr and stores its first submatch under param.
func Capture(expr, param string) Matcher { return router.Capture(expr, param) }

func ParseFrontmatter(markdown string) frontmatter.Result { return frontmatter.Parse(markdown) }

// LoadConfig reads configuration the way the folio command does. An empty
// configFile searches the working directory.
func LoadConfig(configFile string) (*Config, error) {
	return config.Load(config.NewViper(), configFile)
}

func NewApp(cfg *Config, log *slog.Logger) (*App, error) { return app.New(cfg, log) }
