package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/boardbox/yahtzee/internal/services/session"
)

const qrSize = 256

type handlers struct {
	logger         *slog.Logger
	session        *session.Controller
	joinURL        string
	recognitionKey func(*http.Request) string
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// DisplayPage serves the shared display shell
func (h *handlers) DisplayPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(displayPage))
}

// ControllerPage serves the mobile controller shell
func (h *handlers) ControllerPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(controllerPage))
}

// QRCode serves a PNG QR code pointing at the controller join URL
func (h *handlers) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.joinURL, qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("qr encoding failed", slog.String("error", err.Error()))
		http.Error(w, "could not generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// Health serves a liveness check
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// State returns the per-device view of the session, the same payload a
// websocket client receives on connect
func (h *handlers) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.ClientState(h.recognitionKey(r)))
}
