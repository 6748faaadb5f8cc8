package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"guesswho-client/clienterrors"
	"guesswho-client/render"
	"guesswho-client/view"
)

// Game is the part of a session the bridge drives.
type Game interface {
	Tap(ctx context.Context, region render.Region, row, col int) error
	SubmitSettings(ctx context.Context, facepack string, rows, cols int) error
	Restart(ctx context.Context) error
}

// FrameSource publishes the current view frame.
type FrameSource interface {
	Frame() *view.Frame
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Game   Game
	Frames FrameSource
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(game Game, frames FrameSource) *Handler {
	return &Handler{Game: game, Frames: frames}
}

// TapRequest is the body of POST /api/tap.
type TapRequest struct {
	Region render.Region `json:"region"`
	Row    int           `json:"row"`
	Col    int           `json:"col"`
}

// SettingsRequest is the body of POST /api/settings.
type SettingsRequest struct {
	Facepack string `json:"facepack"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CORS(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns the bridge routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", h.View)
		r.Post("/tap", h.Tap)
		r.Post("/settings", h.Settings)
		r.Post("/restart", h.Restart)
	})
	return r
}

// View returns the current frame.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Frames.Frame())
}

// Tap forwards a cell tap to the session.
func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	var req TapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Region != render.RegionMine && req.Region != render.RegionTheirs {
		http.Error(w, "region must be \"mine\" or \"theirs\"", http.StatusBadRequest)
		return
	}
	h.respond(w, "tap", h.Game.Tap(r.Context(), req.Region, req.Row, req.Col))
}

// Settings submits the settings form.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.respond(w, "settings", h.Game.SubmitSettings(r.Context(), req.Facepack, req.Rows, req.Cols))
}

// Restart asks for a new board.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "restart", h.Game.Restart(r.Context()))
}

func (h *Handler) respond(w http.ResponseWriter, op string, err error) {
	if err == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("bridge request failed", "tag", "bridge", "op", op, "err", err)
	} else {
		slog.Debug("bridge request rejected", "tag", "bridge", "op", op, "err", err)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, clienterrors.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, clienterrors.ErrNotInteractive), errors.Is(err, clienterrors.ErrNoBoard):
		return http.StatusConflict
	case errors.Is(err, clienterrors.ErrDisconnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "tag", "bridge", "err", err)
	}
}
