package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sjoberg/arbetstid/internal/config"
	"github.com/sjoberg/arbetstid/internal/email"
	"github.com/sjoberg/arbetstid/internal/handler"
	"github.com/sjoberg/arbetstid/internal/middleware"
	"github.com/sjoberg/arbetstid/internal/notify"
	"github.com/sjoberg/arbetstid/internal/reminder"
	"github.com/sjoberg/arbetstid/internal/store"
	ws "github.com/sjoberg/arbetstid/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	worker        *reminder.Worker
	settingsH     *handler.SettingsHandler
	notificationH *handler.NotificationHandler
	pushH         *handler.PushHandler
	timeReportH   *handler.TimeReportHandler
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	prefStore := store.NewPrefStore(db)
	markerStore := store.NewMarkerStore(db)
	notificationStore := store.NewNotificationStore(db)
	pushStore := store.NewPushStore(db)

	// The push service stays nil without VAPID keys; the permission gate
	// reports unsupported and the dispatcher falls back to history-only.
	var pushSvc *notify.Service
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = notify.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	}
	gate := notify.NewGate(pushSvc, pushStore, prefStore)

	dispatchLogger := logger.With("component", "dispatch")
	dispatcher := reminder.NewDispatcher(pushSvc, pushStore, notificationStore, hub, cfg.UserID, dispatchLogger)
	worker := reminder.NewWorker(prefStore, markerStore, gate, dispatcher, logger.With("component", "worker"))

	relay := email.NewClient(cfg.RelayEndpoint, cfg.RelayAPIKey)

	return &Server{
		db:            db,
		hub:           hub,
		worker:        worker,
		settingsH:     handler.NewSettingsHandler(prefStore, worker, cfg.UserID, logger.With("component", "settings")),
		notificationH: handler.NewNotificationHandler(notificationStore, logger.With("component", "notifications")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, gate, cfg.UserID, logger.With("component", "push")),
		timeReportH:   handler.NewTimeReportHandler(relay, logger.With("component", "timereport")),
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// Worker returns the reminder worker so main can run its lifecycle.
func (s *Server) Worker() *reminder.Worker {
	return s.worker
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Reminder settings
	mux.HandleFunc("GET /api/settings/reminders", s.settingsH.GetReminders)
	mux.HandleFunc("PUT /api/settings/reminders", s.settingsH.UpdateReminders)
	mux.HandleFunc("GET /api/settings/installer", s.settingsH.GetInstaller)
	mux.HandleFunc("POST /api/settings/installer/close", s.settingsH.CloseInstaller)

	// Notification history
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("POST /api/notifications/clear", s.notificationH.Clear)

	// Push subscriptions and permission
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/deny", s.pushH.Deny)
	mux.HandleFunc("GET /api/push/permission", s.pushH.Permission)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)

	// Time report relay — rate limited, it triggers outbound mail
	mux.HandleFunc("POST /api/time-reports/send", s.rateLimitedHandler(s.timeReportH.Send))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
