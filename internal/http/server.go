package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensetracker/internal/data"
	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/report"
	"expensetracker/internal/session"
	appweb "expensetracker/web"
)

// Page names; each has templates/<name>.html.
const (
	pageLogin     = "login"
	pageDashboard = "dashboard"
	pageExpenses  = "expenses"
	pageBudget    = "budget"
	pageReports   = "reports"
)

var pageNames = []string{pageLogin, pageDashboard, pageExpenses, pageBudget, pageReports}

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	ReportFontPath     string
	Logger             *applog.Logger
	// RemoteTimeout bounds each handler's calls to the data endpoint.
	RemoteTimeout time.Duration
	// Ready reports whether the data endpoint answers. Nil means always ready.
	Ready func(context.Context) error
	// Templates overrides the embedded templates/ and static/ tree.
	Templates fs.FS
}

type Server struct {
	http.Server
	pages    map[string]*template.Template
	partials *template.Template
	store    data.Accessor
	state    *session.State
	auth     *session.Authenticator
	exporter *report.Exporter
	limiter  *ratelimit.Limiter
	logger   *applog.Logger
	ready    func(context.Context) error

	remoteTimeout time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options, store data.Accessor, state *session.State) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	tfs := opts.Templates
	if tfs == nil {
		tfs = appweb.FS
	}

	pages, partials, err := parseTemplates(tfs)
	if err != nil {
		return nil, err
	}

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute

	s := &Server{
		pages:    pages,
		partials: partials,
		store:    store,
		state:    state,
		auth:     session.NewAuthenticator(store, state, logger.WithComponent(applog.ComponentSession).Logger),
		exporter: report.NewExporter(opts.ReportFontPath),
		limiter:  ratelimit.NewLimiter(limiterCfg),
		logger:   logger,
		ready:    opts.Ready,

		remoteTimeout: opts.RemoteTimeout,
	}
	if s.remoteTimeout <= 0 {
		s.remoteTimeout = defaultRemoteTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(trace.NewMiddleware(trace.ClientIP, logger.WithComponent(applog.ComponentTrace).Logger).Middleware)
	r.Use(applog.Middleware(logger, func(r *http.Request) string { return trace.GetRequestID(r.Context()) }))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.limiter.Middleware(trace.ClientIP, s.handleRateLimited))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	if sub, err := fs.Sub(tfs, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		logger.Warn("Failed to mount static FS", "error", err)
	}

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/theme", s.handleToggleTheme)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/", s.handleDashboard)
		r.Get("/dashboard/trend", s.handleDashboardTrend)

		r.Get("/expenses", s.handleExpensesPage)
		r.Get("/expenses/table", s.handleExpenseTable)
		r.Get("/expenses/new", s.handleExpenseForm)
		r.Post("/expenses", s.handleCreateExpense)
		r.Get("/expenses/{id}/edit", s.handleExpenseForm)
		r.Put("/expenses/{id}", s.handleUpdateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)

		r.Get("/budget", s.handleBudgetPage)
		r.Get("/budget/{category}/edit", s.handleBudgetEdit)
		r.Get("/budget/{category}", s.handleBudgetRow)
		r.Put("/budget", s.handleUpdateBudget)

		r.Get("/reports", s.handleReportsPage)
		r.Get("/reports/export.{format}", s.handleReportExport)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      max(30*time.Second, s.remoteTimeout+5*time.Second),
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, *template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys,
			"templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		pages[name] = t
	}
	partials, err := template.New("partials").Funcs(templateFuncs).ParseFS(fsys, "templates/partials.html")
	if err != nil {
		return nil, nil, fmt.Errorf("parse partial templates: %w", err)
	}
	return pages, partials, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireAuth sends visitors that have not logged in to the login page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.state.Authenticated() {
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, trace.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	NewHTMXResponse().
		Status(http.StatusTooManyRequests).
		NoSwap().
		TriggerErrorNotification("Too many requests, please slow down").
		Text("Rate limit exceeded. Please try again later.").
		Write(w)
}

// pageData is what layout.html renders around every page.
type pageData struct {
	Title         string
	Active        string
	Theme         session.Theme
	Authenticated bool
	Notifications []session.Notification
	Data          any
}

// render executes a full page. Queued notifications are drained into it.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	pd := pageData{
		Title:         title,
		Active:        name,
		Theme:         s.state.Theme(),
		Authenticated: s.state.Authenticated(),
		Notifications: s.state.TakeNotifications(),
		Data:          data,
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		s.logger.WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(), "Page template execution failed",
			"error", err, "template", name, applog.FieldOperation, applog.OpRender)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderPartial executes one fragment into b so that headers set by the
// caller still apply.
func (s *Server) renderPartial(r *http.Request, b *HTMXResponseBuilder, name string, data any) *HTMXResponseBuilder {
	var buf bytes.Buffer
	if err := s.partials.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(), "Partial template execution failed",
			"error", err, "template", name, applog.FieldOperation, applog.OpRender)
		return NewHTMXResponse().Status(http.StatusInternalServerError).NoSwap().
			TriggerErrorNotification("Rendering failed")
	}
	return b.HTML(buf.Bytes())
}

const defaultRemoteTimeout = 7 * time.Second

// remoteContext bounds a handler's calls to the data endpoint.
func (s *Server) remoteContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.remoteTimeout)
}
