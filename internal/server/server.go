package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"filehub/internal/blobstore"
	"filehub/internal/cache"
	"filehub/internal/config"
	"filehub/internal/store"
)

const (
	allowRemoteEnvKey = "FILEHUB_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 60 * time.Second

	uploadConcurrencyLimit   = 4
	downloadConcurrencyLimit = 8
	metricsConcurrencyLimit  = 2
	gcConcurrencyLimit       = 1
)

// Server wraps HTTP handlers for the filehub API.
type Server struct {
	addr           string
	catalog        store.Catalog
	fileService    *FileService
	metricsService *MetricsService
	gcService      *GCService
	listCache      *cache.Cache
	logger         *slog.Logger
	adminTokenHash string
	dbPath         string
	dataDir        string

	uploadLimiter   chan struct{}
	downloadLimiter chan struct{}
	metricsLimiter  chan struct{}
	gcLimiter       chan struct{}
}

// New creates a new server instance.
func New(cfg *config.Config, catalog store.Catalog, blobs blobstore.BlobStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	listCache := cache.New(cfg.ListCache.Capacity, time.Duration(cfg.ListCache.TTLSeconds)*time.Second)

	return &Server{
		addr:           cfg.ListenAddr,
		catalog:        catalog,
		fileService:    NewFileService(catalog, blobs, cfg.Uploads),
		metricsService: NewMetricsService(catalog, cfg.Metrics.TopDuplicateGroups),
		gcService:      NewGCService(catalog, blobs, cfg.GC.BatchSize, logger),
		listCache:      listCache,
		logger:         logger,
		adminTokenHash: cfg.AdminTokenHash,
		dbPath:         cfg.DBPath,
		dataDir:        cfg.DataDir,

		uploadLimiter:   make(chan struct{}, uploadConcurrencyLimit),
		downloadLimiter: make(chan struct{}, downloadConcurrencyLimit),
		metricsLimiter:  make(chan struct{}, metricsConcurrencyLimit),
		gcLimiter:       make(chan struct{}, gcConcurrencyLimit),
	}
}

// GC exposes the orphan sweeper for the background loop.
func (s *Server) GC() *GCService {
	return s.gcService
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
