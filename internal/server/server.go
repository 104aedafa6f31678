package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/hession/omnisuggest/internal/config"
	"github.com/hession/omnisuggest/internal/logger"
	"github.com/hession/omnisuggest/internal/suggest"
)

var queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "omnisuggest_queries_total",
	Help: "Suggestion queries by provider and outcome.",
}, []string{"provider", "outcome"})

// ginMetrics registers the gin collectors once per process.
var ginMetrics = sync.OnceValue(func() *ginprometheus.Prometheus {
	return ginprometheus.NewPrometheus("gin")
})

// Server exposes the suggestion service over HTTP.
type Server struct {
	svc         *suggest.Service
	previewDir  string
	listen      string
	enablePprof bool
	version     string
	gitCommit   string
}

// New creates a server
func New(svc *suggest.Service, cfg *config.Config, version, gitCommit string) *Server {
	return &Server{
		svc:         svc,
		previewDir:  cfg.PreviewDir(),
		listen:      cfg.Server.Listen,
		enablePprof: cfg.Server.EnablePprof,
		version:     version,
		gitCommit:   gitCommit,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    accessLog(),
		SkipPaths: []string{"/healthcheck", "/metrics"},
	}))
	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/previews"})))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	router.Use(cors.New(corsCfg))

	p := ginMetrics()
	router.Use(p.HandlerFunc())
	h := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))
	router.GET(p.MetricsPath, func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	})

	if s.enablePprof {
		pprof.Register(router)
	}

	router.GET("/favicon.ico", ignoreHandler)
	router.GET("/version", s.versionHandler)
	router.GET("/healthcheck", s.healthCheckHandler)

	if err := os.MkdirAll(s.previewDir, 0755); err != nil {
		logger.Warn("Failed to create preview directory %s: %v", s.previewDir, err)
	}
	router.Static("/previews", s.previewDir)

	if api := router.Group("/api"); api != nil {
		api.GET("/suggest", s.suggestHandler)
		api.GET("/providers", s.providersHandler)
	}

	return router
}

// Run serves until the listener fails
func (s *Server) Run() error {
	logger.Info("Start service on %s", s.listen)
	return s.Router().Run(s.listen)
}

func accessLog() io.Writer {
	if l := logger.GetDefault(); l != nil {
		return l.GetWriter(logger.INFO)
	}
	return io.Discard
}

func ignoreHandler(c *gin.Context) {
}

type entryResponse struct {
	suggest.Entry
	IconURL   string `json:"icon_url,omitempty"`
	TargetURL string `json:"target_url,omitempty"`
}

type suggestResponse struct {
	Query    string          `json:"query"`
	Provider string          `json:"provider"`
	Engine   string          `json:"engine"`
	Entries  []entryResponse `json:"entries"`
}

func (s *Server) suggestHandler(c *gin.Context) {
	sel := s.svc.Selection()

	var err error
	if sel.Provider, err = intParam(c, "provider", sel.Provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sel.Engine, err = intParam(c, "engine", sel.Engine); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := c.Query("q")
	entries := s.svc.QueryWith(c.Request.Context(), query, sel)
	provider := s.svc.Provider(sel.Provider)
	engine := s.svc.Engine(sel.Engine)
	queriesTotal.WithLabelValues(provider.Key, suggest.Outcome(entries)).Inc()

	resp := suggestResponse{
		Query:    query,
		Provider: provider.Name,
		Engine:   engine.Name,
		Entries:  make([]entryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Entry:     e,
			IconURL:   s.iconURL(e.IconPath),
			TargetURL: e.TargetURL(engine),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// iconURL maps a cached preview file to its /previews URL.
func (s *Server) iconURL(iconPath string) string {
	if iconPath == "" || filepath.Dir(iconPath) != filepath.Clean(s.previewDir) {
		return ""
	}
	return "/previews/" + filepath.Base(iconPath)
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

func (s *Server) providersHandler(c *gin.Context) {
	sel := s.svc.Selection()
	c.JSON(http.StatusOK, gin.H{
		"providers": s.svc.Providers(),
		"engines":   s.svc.Engines(),
		"selected": gin.H{
			"provider": s.svc.Provider(sel.Provider).ID,
			"engine":   s.svc.Engine(sel.Engine).ID,
		},
	})
}

func (s *Server) versionHandler(c *gin.Context) {
	type vResp struct {
		BuildVersion string `json:"build,omitempty"`
		GoVersion    string `json:"go_version,omitempty"`
		GitCommit    string `json:"git_commit,omitempty"`
	}

	ver := vResp{
		BuildVersion: s.version,
		GoVersion:    fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		GitCommit:    s.gitCommit,
	}

	c.JSON(http.StatusOK, ver)
}

func (s *Server) healthCheckHandler(c *gin.Context) {
	type hcResp struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
	}

	hcMap := make(map[string]hcResp)
	status := http.StatusOK

	hcPreviews := hcResp{Healthy: true}
	if err := checkWritable(s.previewDir); err != nil {
		status = http.StatusInternalServerError
		hcPreviews = hcResp{Healthy: false, Message: err.Error()}
	}
	hcMap["previews"] = hcPreviews

	c.JSON(status, hcMap)
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
