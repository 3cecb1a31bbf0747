// Package handler provides HTTP request handlers for the application.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/api"
	"github.com/chatlinehq/chatline/internal/middleware"
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/service"
)

// Stable error codes carried in the error envelope. Clients branch on these,
// not on the HTTP status.
const (
	errorCodeValidation         = "VALIDATION_ERROR"
	errorCodeAccessDenied       = "ACCESS_DENIED"
	errorCodeInsufficientCredit = "INSUFFICIENT_CREDIT"
	errorCodeIncompleteRouting  = "INCOMPLETE_ROUTING"
	errorCodeUnroutable         = "UNROUTABLE_DESTINATION"
	errorCodeNotFound           = "NOT_FOUND"
	errorCodeProviderError      = "PROVIDER_ERROR"
	errorCodeProviderTimeout    = "PROVIDER_TIMEOUT"
)

const (
	errorMessageInvalidBody = "Invalid request body"
	errorMessageAuthMissing = "Authentication required"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	service  *service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a new handler instance that implements api.ServerInterface.
func NewHandler(service *service.Service, logger *zap.Logger) api.ServerInterface {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// actor extracts the authenticated caller. The auth middleware guarantees it
// on /api routes; a miss here means a wiring bug, answered as 401.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.sendError(w, r, http.StatusUnauthorized, middleware.ErrorCodeUnauthorized, errorMessageAuthMissing)
	}
	return actor, ok
}

// sendServiceError maps service-layer failures onto status codes and stable
// error codes.
func (h *Handler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ire *service.IncompleteRoutingError

	switch {
	case errors.Is(err, service.ErrValidation):
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		h.sendError(w, r, http.StatusForbidden, errorCodeAccessDenied, "Access denied")
	case errors.Is(err, service.ErrInsufficientCredit):
		h.sendError(w, r, http.StatusPaymentRequired, errorCodeInsufficientCredit, "Insufficient send credit")
	case errors.As(err, &ire):
		h.sendError(w, r, http.StatusUnprocessableEntity, errorCodeIncompleteRouting, err.Error())
	case errors.Is(err, service.ErrUnroutableDestination):
		h.sendError(w, r, http.StatusNotFound, errorCodeUnroutable, err.Error())
	case errors.Is(err, service.ErrNotFound):
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Resource not found")
	case errors.Is(err, service.ErrProviderTimeout):
		h.sendError(w, r, http.StatusGatewayTimeout, errorCodeProviderTimeout, "Provider request timed out")
	case errors.Is(err, service.ErrProviderFailure):
		h.sendError(w, r, http.StatusBadGateway, errorCodeProviderError, err.Error())
	default:
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Unhandled service error",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, api.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Timestamp: func() *time.Time {
			t := time.Now()
			return &t
		}(),
	})
}

// BindParamError answers malformed query parameters from the route wrapper.
func (h *Handler) BindParamError(w http.ResponseWriter, r *http.Request, err error) {
	h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
}

func normalizePage(page, limit *int) (int, int) {
	p := defaultPage
	l := defaultLimit

	if page != nil && *page >= 1 {
		p = *page
	}

	if limit != nil && *limit >= 1 && *limit <= maxLimit {
		l = *limit
	}

	return p, l
}

func paginate(page, limit int, total int64) api.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return api.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
