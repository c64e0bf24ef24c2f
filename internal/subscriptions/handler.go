package subscriptions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrUnknownToken, Status: http.StatusUnauthorized, Message: "subscription token not recognized"},
}

// Handler handles HTTP requests for the subscriptions module.
type Handler struct {
	service *Service
}

// NewHandler creates a new subscriptions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public subscription routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/subscriptions", h.Subscribe)
	r.Get("/subscriptions/confirm", h.Confirm)
}

// Subscribe handles POST /subscriptions with form-encoded name and email.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid form data")
		return
	}

	err := h.service.Subscribe(r.Context(), r.PostFormValue("name"), r.PostFormValue("email"))
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			httputil.Error(w, http.StatusBadRequest, vErr.Error())
			return
		}
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Confirm handles GET /subscriptions/confirm?subscription_token=...
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")
	if token == "" {
		httputil.Error(w, http.StatusBadRequest, "subscription_token is required")
		return
	}

	if err := h.service.Confirm(r.Context(), token); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusOK)
}
