package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mazescore/internal/config"
	"github.com/mazescore/internal/domain"
	"github.com/mazescore/internal/ratelimit"
	"github.com/mazescore/internal/service"
	"github.com/mazescore/internal/websocket"
)

// Handler provides HTTP handlers for the score and player API
type Handler struct {
	service *service.LeaderboardService
	hub     *websocket.Hub
	limiter *ratelimit.Limiter
	cfg     *config.LeaderboardConfig
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler. The limiter is optional; passing
// nil disables rate limiting.
func NewHandler(svc *service.LeaderboardService, hub *websocket.Hub, limiter *ratelimit.Limiter, cfg *config.LeaderboardConfig, logger *slog.Logger) *Handler {
	return &Handler{
		service: svc,
		hub:     hub,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// WebSocket endpoint
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.rateLimitMiddleware)

		r.Route("/scores", func(r chi.Router) {
			r.Post("/", h.SubmitScore)
			r.Get("/top", h.GetTopScores)
			r.Get("/top/level/{level}", h.GetTopScoresByLevel)
			r.Get("/user/{playerID}", h.GetPlayerScores)
			r.Get("/player/{playerName}", h.GetScoresByPlayerName)
			r.Get("/{id}", h.GetScore)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreatePlayer)
			r.Get("/", h.ListPlayers)
			r.Get("/username/{username}", h.GetPlayerByUsername)
			r.Get("/{id}", h.GetPlayer)
			r.Put("/{id}", h.UpdatePlayer)
		})

		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects clients that exceed their request budget. The
// limiter fails open: a Redis outage must not take the API down with it.
func (h *Handler) rateLimitMiddleware(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := h.limiter.Allow(r.Context(), r.RemoteAddr)
		if err != nil {
			h.logger.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			h.writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// handleServiceError maps service errors onto HTTP statuses
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if domain.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.logger.Error("request failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
}

// limitParam parses the limit query parameter, applying the default and
// clamping to the configured maximum. The stores themselves accept any
// limit; capping is purely handler policy.
func (h *Handler) limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.cfg.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidRequest
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}
	return limit, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidRequest
	}
	return id, nil
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

// SubmitScore handles score submission
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var submission domain.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if submission.PlayerID == 0 {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	record, err := h.service.SubmitScore(r.Context(), submission)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusCreated, record)
}

// GetScore returns a single score record
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.service.GetScore(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if record == nil {
		h.writeError(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}

	h.writeSuccess(w, http.StatusOK, record)
}

// GetPlayerScores returns a player's score history, best first
func (h *Handler) GetPlayerScores(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.service.GetPlayerScores(r.Context(), playerID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, records)
}

// GetTopScores returns the global leaderboard
func (h *Handler) GetTopScores(w http.ResponseWriter, r *http.Request) {
	limit, err := h.limitParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.service.GetTopScores(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, records)
}

// GetTopScoresByLevel returns the leaderboard for one difficulty level
func (h *Handler) GetTopScoresByLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	limit, err := h.limitParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.service.GetTopScoresByLevel(r.Context(), level, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, records)
}

// GetScoresByPlayerName returns score records by denormalized player name
func (h *Handler) GetScoresByPlayerName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "playerName")

	records, err := h.service.GetScoresByPlayerName(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, records)
}

// createPlayerRequest is the request body for player creation and update
type createPlayerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// CreatePlayer handles player registration
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if req.Username == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	player, err := h.service.CreatePlayer(r.Context(), &domain.Player{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusCreated, player)
}

// ListPlayers returns all registered players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.ListPlayers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, players)
}

// GetPlayer returns a player by id
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	player, err := h.service.GetPlayer(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if player == nil {
		h.writeError(w, http.StatusNotFound, domain.ErrPlayerNotFound)
		return
	}

	h.writeSuccess(w, http.StatusOK, player)
}

// GetPlayerByUsername returns a player by exact username
func (h *Handler) GetPlayerByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	player, err := h.service.GetPlayerByUsername(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if player == nil {
		h.writeError(w, http.StatusNotFound, domain.ErrPlayerNotFound)
		return
	}

	h.writeSuccess(w, http.StatusOK, player)
}

// UpdatePlayer overwrites username and email of an existing player
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if req.Username == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	player, err := h.service.UpdatePlayer(r.Context(), &domain.Player{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, player)
}
