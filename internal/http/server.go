package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dinamifin/internal/cache"
	"dinamifin/internal/log"
	"dinamifin/internal/services"
)

type Server struct {
	http.Server
	records     *services.RecordService
	dashboards  *services.DashboardService
	histories   *services.HistoryService
	rateLimiter *rateLimiter
	logger      *log.Logger
	structured  *log.StructuredLogger

	// now supplies the reference instant for period math; tests pin it
	now func() time.Time

	dashboardCache *cache.LRUCache[dashboardResponse]
	historyCache   *cache.LRUCache[[]byte]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, records *services.RecordService, dashboards *services.DashboardService, histories *services.HistoryService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		records:        records,
		dashboards:     dashboards,
		histories:      histories,
		rateLimiter:    newRateLimiter(),
		logger:         logger.WithComponent(log.ComponentHTTP),
		now:            time.Now,
		dashboardCache: cache.NewLRUCache[dashboardResponse](100, 5*time.Minute),
		historyCache:   cache.NewLRUCache[[]byte](200, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.structured = log.NewStructuredLogger(s.logger)

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.historyCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /records/{type}/{userID}", s.withMiddleware(s.handleCreateRecord))
	mux.HandleFunc("GET /records/{type}/{userID}", s.withMiddleware(s.handleListRecords))
	mux.HandleFunc("PUT /records/{type}/{userID}/{date}", s.withMiddleware(s.handleUpdateRecord))
	mux.HandleFunc("DELETE /records/{type}/{userID}/{date}", s.withMiddleware(s.handleDeleteRecord))

	mux.HandleFunc("GET /income/{userID}", s.withMiddleware(s.handleGetIncome))
	mux.HandleFunc("PUT /income/{userID}/{period}", s.withMiddleware(s.handleSetIncome))
	mux.HandleFunc("GET /goals/{type}/{userID}", s.withMiddleware(s.handleGetGoal))
	mux.HandleFunc("PUT /goals/{type}/{userID}/{period}", s.withMiddleware(s.handleSetGoal))

	mux.HandleFunc("GET /dashboard/{userID}", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /history/{metric}/{userID}", s.withMiddleware(s.handleHistory))

	return s
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		s.structured.LogHTTPStart(ctx, r, clientIP)

		// Mutating requests are rate limited per client
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateUser drops every cached view for a user after a write.
func (s *Server) invalidateUser(userID string) {
	s.dashboardCache.DeletePrefix("dashboard:" + userID)
	s.historyCache.DeletePrefix("history:" + userID)
}

// Shutdown gracefully shuts down the server and its cleanup routines.
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

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
