package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/prefs"
	"fintrack/internal/session"
	appweb "fintrack/web"
)

// Server renders the web UI on top of the finance backend. Report and
// list payloads are cached per month with LRU+TTL eviction; every
// mutation invalidates the affected keys and publishes an activity event.
type Server struct {
	http.Server
	templates   *template.Template
	backend     *api.Client
	sessions    *session.Store
	prefs       *prefs.Store
	rates       prefs.Fetcher
	activity    *events.Client
	rateLimiter *rateLimiter

	dashCache *cache.LRUCache[dashboardView]
	txCache   *cache.LRUCache[[]core.Transaction]
	acctCache *cache.LRUCache[[]core.Account]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. rates and activity may be nil; the exchange-rate refresh
// and the activity feed are then disabled.
func NewServer(addr string, backend *api.Client, sessions *session.Store, pref *prefs.Store, rates prefs.Fetcher, activity *events.Client) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:     backend,
		sessions:    sessions,
		prefs:       pref,
		rates:       rates,
		activity:    activity,
		rateLimiter: newRateLimiter(),

		dashCache: cache.NewLRUCache[dashboardView](50, 5*time.Minute),
		txCache:   cache.NewLRUCache[[]core.Transaction](100, 5*time.Minute),
		acctCache: cache.NewLRUCache[[]core.Account](10, 5*time.Minute),

		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.dashCache)
	s.cacheManager.Register(s.txCache)
	s.cacheManager.Register(s.acctCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Public pages
	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	// Everything below requires a signed-in session.
	mux.HandleFunc("/dashboard", s.guarded(s.handleDashboard))
	mux.HandleFunc("/accounts", s.guarded(s.handleAccounts))
	mux.HandleFunc("/accounts/new", s.guarded(s.handleAccountForm))
	mux.HandleFunc("/accounts/", s.guarded(s.handleAccountByID))
	mux.HandleFunc("/transactions", s.guarded(s.handleTransactions))
	mux.HandleFunc("/transactions/new", s.guarded(s.handleTransactionForm))
	mux.HandleFunc("/transactions/export", s.guarded(s.handleTransactionExport))
	mux.HandleFunc("/transactions/", s.guarded(s.handleTransactionByID))
	mux.HandleFunc("/budgets", s.guarded(s.handleBudgets))
	mux.HandleFunc("/budgets/new", s.guarded(s.handleBudgetForm))
	mux.HandleFunc("/budgets/", s.guarded(s.handleBudgetByID))
	mux.HandleFunc("/profile", s.guarded(s.handleProfile))
	mux.HandleFunc("/profile/update", s.guarded(s.handleProfileUpdate))
	mux.HandleFunc("/profile/password", s.guarded(s.handlePasswordChange))
	mux.HandleFunc("/settings", s.guarded(s.handleSettings))
	mux.HandleFunc("/settings/theme", s.guarded(s.handleThemeToggle))
	mux.HandleFunc("/settings/currency", s.guarded(s.handleCurrencyToggle))

	return s
}

// guarded wraps a handler with the security middleware and the session
// check. Unauthenticated requests are sent back to the login page.
func (s *Server) guarded(next http.HandlerFunc) http.HandlerFunc {
	return s.withSecurityHeaders(s.requireSession(next))
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sessions.Current() == nil {
			slog.InfoContext(r.Context(), "Unauthenticated request redirected", "url", r.URL.Path)
			if isHTMX(r) {
				NewHTMXResponse().Header("HX-Redirect", "/").Write(w)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleIndex serves the login page, or bounces a signed-in user straight
// to the dashboard. Unknown paths fall through here and get a 404.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.sessions.Current() != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", nil)
}

// view is the envelope every page template receives.
type view struct {
	User      *core.User
	ColorMode string
	Currency  string
	Data      any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	v := view{
		User:      s.sessions.Current(),
		ColorMode: s.prefs.ColorMode(),
		Currency:  s.prefs.Currency(),
		Data:      data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, v); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// publishActivity emits a mutation event to the activity feed. Failures
// are logged and never surfaced; the feed is best effort.
func (s *Server) publishActivity(ctx context.Context, entity, action, ref string, month core.Month) {
	msg := events.NewActivityMessage(entity, action, ref, month.String())
	if err := s.activity.Publish(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Activity publish failed",
			"entity", entity, "action", action, "ref", ref, "error", err)
	}
}

// invalidateMonth drops every cached payload derived from the given
// month. Dashboard entries are purged wholesale because net worth history
// spans months.
func (s *Server) invalidateMonth(month core.Month) {
	s.dashCache.DeletePrefix("dash:")
	s.txCache.Delete("tx:" + month.String())
}

func (s *Server) invalidateAccounts() {
	s.acctCache.Delete("accounts")
	s.dashCache.DeletePrefix("dash:")
}

// getAccounts returns the account list, cached briefly to keep the
// per-page name lookups from hammering the backend.
func (s *Server) getAccounts(ctx context.Context) ([]core.Account, error) {
	if items, ok := s.acctCache.Get("accounts"); ok {
		result := make([]core.Account, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.backend.ListAccounts(cctx)
	if err != nil {
		return nil, err
	}
	s.acctCache.Set("accounts", items)
	return items, nil
}

// getTransactions returns the month's transactions, cached.
func (s *Server) getTransactions(ctx context.Context, month core.Month) ([]core.Transaction, error) {
	key := "tx:" + month.String()
	if items, ok := s.txCache.Get(key); ok {
		slog.DebugContext(ctx, "Transactions cache hit", "month", month.String(), "count", len(items))
		result := make([]core.Transaction, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.backend.ListTransactions(cctx, month)
	if err != nil {
		return nil, err
	}
	s.txCache.Set(key, items)
	slog.DebugContext(ctx, "Transactions cached", "month", month.String(), "count", len(items))
	return items, nil
}
