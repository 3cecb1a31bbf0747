package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/chatlinehq/chatline/internal/api"
	"github.com/chatlinehq/chatline/internal/models"
)

func providerResponse(account *models.ProviderAccount) api.ProviderResponse {
	return api.ProviderResponse{
		ID:           account.ID,
		ProviderType: account.ProviderType,
		ProviderName: account.ProviderName,
		Kind:         account.Kind,
		Credentials:  account.Credentials.Masked(),
		IsActive:     account.IsActive,
		CreatedAt:    account.CreatedAt,
	}
}

// GetProviders implements api.ServerInterface.
func (h *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.Providers.List(actor)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	responses := make([]api.ProviderResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, providerResponse(account))
	}

	render.JSON(w, r, responses)
}

// CreateProvider implements api.ServerInterface.
func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req api.CreateProviderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	account, err := h.service.Providers.Create(actor, req.ProviderType, req.ProviderName, models.CredentialsMap(req.Credentials))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, providerResponse(account))
}

// TestProviderConnection implements api.ServerInterface.
func (h *Handler) TestProviderConnection(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	var req api.TestConnectionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	result, err := h.service.Providers.TestConnection(r.Context(), req.ProviderName, models.CredentialsMap(req.Credentials))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.TestConnectionResponse{
		Success: result.OK,
		Message: result.Message,
	})
}
