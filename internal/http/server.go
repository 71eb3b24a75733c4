// Package http serves the ledger's HTML interface.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/services"
	appweb "ledger/web"
)

// Ledger is what the handlers need from the ledger service.
type Ledger interface {
	AddIncome(ctx context.Context, in services.IncomeInput) (core.Transaction, error)
	AddExpense(ctx context.Context, in services.ExpenseInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	SetBudget(ctx context.Context, month, amount string) (core.BudgetEntry, error)
	ClearAll(ctx context.Context) error

	Dashboard(ctx context.Context, month core.Month) (services.Dashboard, error)
	MonthReport(ctx context.Context, month core.Month) (services.MonthReport, error)
	Insights(ctx context.Context, month core.Month) (services.Insights, error)
	History(ctx context.Context) ([]core.Transaction, error)
	AvailableMonths(ctx context.Context) ([]core.Month, error)
}

type Options struct {
	Money  MoneyFormatter
	Logger *log.Logger
	// Ready backs /readyz; nil means always ready.
	Ready     func(context.Context) error
	Now       func() time.Time
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	ledger   Ledger
	pages    map[string]*template.Template
	money    MoneyFormatter
	logger   *log.Logger
	ready    func(context.Context) error
	now      func() time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

var pageNames = []string{
	"dashboard", "budget", "income", "expense", "history",
	"delete", "statistics", "insights", "exit",
}

// NewServer parses the embedded templates and configures routes.
func NewServer(addr string, ledger Ledger, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Money.symbol == "" {
		opts.Money = NewMoneyFormatter("₹")
	}

	s := &Server{
		ledger:   ledger,
		money:    opts.Money,
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),
		ready:    opts.Ready,
		now:      opts.Now,
		limiter:  ratelimit.NewLimiter(opts.RateLimit),
		detector: security.NewDetector(),
	}

	pages, err := s.parsePages()
	if err != nil {
		s.limiter.Stop()
		return nil, err
	}
	s.pages = pages

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.limiter.Stop()
		return nil, err
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var h http.Handler = mux
	h = s.flagSuspicious(h)
	h = headers.Middleware(h)
	h = log.Middleware(opts.Logger, trace.FromRequest)(h)
	h = trace.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"money":   s.money.Format,
		"percent": formatPercent,
		"share":   func(d decimal.Decimal) int64 { return core.Percent(d) },
		"fixed":   func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
}

func (s *Server) parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(s.funcs()).ParseFS(appweb.TemplatesFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("GET /{$}", s.page(s.handleDashboard))
	mux.Handle("GET /budget", s.page(s.handleBudgetForm))
	mux.Handle("POST /budget", s.write(s.handleSetBudget))
	mux.Handle("GET /income", s.page(s.handleIncomeForm))
	mux.Handle("POST /income", s.write(s.handleAddIncome))
	mux.Handle("GET /expenses", s.page(s.handleExpenseForm))
	mux.Handle("POST /expenses", s.write(s.handleAddExpense))
	mux.Handle("GET /history", s.page(s.handleHistory))
	mux.Handle("GET /expenses/delete", s.page(s.handleDeleteForm))
	mux.Handle("POST /expenses/delete", s.write(s.handleDeleteExpense))
	mux.Handle("GET /statistics", s.page(s.handleStatistics))
	mux.Handle("GET /statistics.csv", s.page(s.handleStatisticsCSV))
	mux.Handle("GET /insights", s.page(s.handleInsights))
	mux.Handle("POST /clear", s.write(s.handleClear))

	mux.HandleFunc("GET /exit", s.handleExit)
	mux.HandleFunc("POST /restart", s.handleRestart)
	return nil
}

// page shows the exit screen instead of h once the user has exited.
func (s *Server) page(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if DecodeAppState(r).Exited {
			s.renderExit(w, r)
			return
		}
		h(w, r)
	})
}

// write is page plus the per-client rate limit.
func (s *Server) write(h http.HandlerFunc) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r))
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
	}
	return s.limiter.Middleware(s.detector.ExtractClientIP, onLimit)(s.page(h))
}

func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
