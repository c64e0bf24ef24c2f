package newsletter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/httputil"
)

// Handler handles HTTP requests for the newsletter module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new newsletter handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the newsletter routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/newsletters", h.Publish)
}

// PublishRequest represents the request body for publishing an issue.
type PublishRequest struct {
	Title   string `json:"title" validate:"required"`
	Content struct {
		HTML string `json:"html" validate:"required"`
		Text string `json:"text" validate:"required"`
	} `json:"content"`
}

// Publish handles POST /newsletters.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.Broadcast(r.Context(), req.Title, req.Content.HTML, req.Content.Text); err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
}
