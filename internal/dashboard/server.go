package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"signalflow/config"
	"signalflow/internal/metrics"
	"signalflow/logger"
)

//go:embed templates/*.tmpl
var embeddedFS embed.FS

// Info is the static configuration shown on the status page.
type Info struct {
	AppName           string
	Version           string
	SourceChat        int64
	TargetChat        int64
	KeepAliveInterval time.Duration
}

// StatsFunc supplies the live counters rendered on the status page and the
// /api/stats endpoint.
type StatsFunc func() map[string]interface{}

// Server hosts the Gin-powered health and status pages. Hosting platforms
// poll /health to decide whether the instance is alive.
type Server struct {
	cfg           config.DashboardConfig
	log           *logger.Log
	info          Info
	statsFn       StatsFunc
	metricStore   *metricStore
	metricHandler metrics.MetricHandlerID
	httpServer    *http.Server
	startedAt     time.Time
}

// NewServer constructs a dashboard server when the dashboard feature is
// enabled. When the dashboard is disabled the returned server will be nil.
// The server subscribes to emitted metrics so the stats endpoint can show
// recent drop and backlog events.
func NewServer(cfg config.DashboardConfig, log *logger.Log, info Info, statsFn StatsFunc) (*Server, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cfg.Address = normalizeAddress(cfg.Address)
	if cfg.MetricsHistory <= 0 {
		cfg.MetricsHistory = 200
	}

	store := newMetricStore(cfg.MetricsHistory)

	return &Server{
		cfg:           cfg,
		log:           log,
		info:          info,
		statsFn:       statsFn,
		metricStore:   store,
		metricHandler: metrics.RegisterMetricHandler(store.handle),
		startedAt:     time.Now(),
	}, nil
}

// Run starts the dashboard HTTP server and blocks until the provided context
// is cancelled or the underlying HTTP server exits with an error.
func (s *Server) Run(ctx context.Context) error {
	if s == nil {
		return nil
	}

	defer s.cleanup()

	router, err := s.buildRouter()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.WithComponent("dashboard").WithFields(logger.Fields{
		"address": s.cfg.Address,
	}).Info("dashboard server started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err == nil {
			return nil
		}
		return err
	}
}

// Address reports the network address the dashboard server listens on.
func (s *Server) Address() string {
	if s == nil {
		return ""
	}
	return s.cfg.Address
}

func (s *Server) buildRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	tmpl := template.Must(template.New("dashboard").ParseFS(embeddedFS, "templates/status.tmpl"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "%s is running", s.info.AppName)
	})

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "status.tmpl", gin.H{
			"AppName":           s.info.AppName,
			"Version":           s.info.Version,
			"SourceChat":        s.info.SourceChat,
			"TargetChat":        s.info.TargetChat,
			"KeepAliveInterval": s.info.KeepAliveInterval.String(),
			"Uptime":            time.Since(s.startedAt).Round(time.Second).String(),
			"Now":               time.Now().Format("2006-01-02 15:04:05"),
			"Stats":             s.stats(),
		})
	})

	router.GET("/api/stats", func(c *gin.Context) {
		recent := s.metricStore.snapshot()
		c.JSON(http.StatusOK, gin.H{
			"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
			"stats":          s.stats(),
			"recent_metrics": metricRecords(recent),
		})
	})

	return router, nil
}

func (s *Server) stats() map[string]interface{} {
	if s.statsFn == nil {
		return map[string]interface{}{}
	}
	return s.statsFn()
}

// cleanup detaches the server from the metric stream once it stops serving.
func (s *Server) cleanup() {
	metrics.UnregisterMetricHandler(s.metricHandler)
}

// metricRecord is the serialisable form of a captured metric event.
type metricRecord struct {
	Timestamp time.Time              `json:"timestamp"`
	Component string                 `json:"component"`
	Name      string                 `json:"name"`
	Value     interface{}            `json:"value"`
	Type      string                 `json:"type"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func metricRecords(events []metrics.Metric) []metricRecord {
	records := make([]metricRecord, 0, len(events))
	for _, m := range events {
		records = append(records, metricRecord{
			Timestamp: m.Timestamp,
			Component: m.Component,
			Name:      m.Name,
			Value:     m.Value,
			Type:      m.Type,
			Fields:    m.Fields,
		})
	}
	return records
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)

	if addr == "" {
		return "0.0.0.0:10000"
	}

	if strings.Contains(addr, "://") {
		if parsed, err := url.Parse(addr); err == nil {
			if host := parsed.Host; host != "" {
				addr = host
			} else if parsed.Opaque != "" {
				addr = parsed.Opaque
			}
		}
	}

	if strings.HasPrefix(addr, ":") {
		if len(addr) > 1 && addr[1] >= '0' && addr[1] <= '9' {
			return "0.0.0.0" + addr
		}
	}

	host, port, err := net.SplitHostPort(addr)
	if err == nil {
		if host == "" || host == "*" {
			host = "0.0.0.0"
		}
		if port == "" {
			port = "10000"
		}
		return net.JoinHostPort(host, port)
	}

	if ip := net.ParseIP(addr); ip != nil {
		return net.JoinHostPort(addr, "10000")
	}

	if !strings.Contains(addr, ":") {
		return net.JoinHostPort(addr, "10000")
	}

	return addr
}
