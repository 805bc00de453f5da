package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const planIDHeader = "X-Search-Plan-Id"

type SearchService interface {
	Search(ctx context.Context, params url.Values) (*domain.SearchResult, error)
	CategoryDescendants(ctx context.Context, categoryID string) ([]string, error)
}

type Handler struct {
	service SearchService
	logger  *logger.Logger
}

func NewHandler(service SearchService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log.Named("HTTPHandler")}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type descendantsResponse struct {
	CategoryID  string   `json:"categoryId"`
	Descendants []string `json:"descendants"`
	Count       int      `json:"count"`
}

// HandleSearch serves GET /api/v1/advertisements.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Search(r.Context(), r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if res.PlanID != "" {
		w.Header().Set(planIDHeader, res.PlanID)
	}
	respondWithJSON(w, http.StatusOK, res, h.logger)
}

// HandleCategoryDescendants serves GET /api/v1/categories/{id}/descendants.
func (h *Handler) HandleCategoryDescendants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ids, err := h.service.CategoryDescendants(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, descendantsResponse{CategoryID: id, Descendants: ids, Count: len(ids)}, h.logger)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFromError(err)
	body := errorResponse{Error: err.Error()}

	var invalid *domain.InvalidParameterError
	if errors.As(err, &invalid) {
		body.Field = invalid.Field
	}

	switch {
	case code >= http.StatusInternalServerError:
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err))
		// store details stay in the logs
		if code != http.StatusGatewayTimeout {
			body.Error = http.StatusText(code)
		}
	default:
		h.logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err))
	}
	respondWithJSON(w, code, body, h.logger)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := jsonCodec.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}
