package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/boardbox/yahtzee/internal/services/session"
	"github.com/boardbox/yahtzee/internal/web/middleware"
	"github.com/boardbox/yahtzee/internal/web/ws"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger  *slog.Logger
	Session *session.Controller
	Hub     *ws.Hub

	// JoinURL is the absolute controller URL encoded into the QR code
	JoinURL string

	// TrustProxyHeaders enables recognition keys from X-Real-IP /
	// X-Forwarded-For. Only safe behind a reverse proxy that strips
	// client-supplied values.
	TrustProxyHeaders bool
}

// NewRouter creates the router serving the display and controller
// shells, the QR join link, the state endpoint and the websocket
// transport
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	recognitionKey := KeyExtractor(cfg.TrustProxyHeaders)

	h := &handlers{
		logger:         cfg.Logger,
		session:        cfg.Session,
		joinURL:        cfg.JoinURL,
		recognitionKey: recognitionKey,
	}

	r.HandleFunc("/", h.DisplayPage).Methods(http.MethodGet)
	r.HandleFunc("/controller", h.ControllerPage).Methods(http.MethodGet)
	r.HandleFunc("/qr.png", h.QRCode).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/state", h.State).Methods(http.MethodGet)

	r.HandleFunc("/ws", ws.Serve(cfg.Hub, cfg.Session, recognitionKey, cfg.Logger))

	return r
}
