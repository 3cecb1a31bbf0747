package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/chatlinehq/chatline/internal/api"
	"github.com/chatlinehq/chatline/internal/service"
)

func sendResponse(outcome *service.SendOutcome) api.SendMessageResponse {
	resp := api.SendMessageResponse{
		Success:    true,
		MessageID:  outcome.MessageID,
		ExternalID: outcome.ExternalID,
	}

	if !outcome.Credit.Unlimited {
		remaining := outcome.Credit.Remaining
		resp.RemainingCredit = &remaining
	}

	return resp
}

// SendMessage implements api.ServerInterface.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req api.SendMessageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	outcome, err := h.service.Outbound.SendToContact(r.Context(), actor, req.ChatroomID, req.ToNumber, req.Content)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, sendResponse(outcome))
}

// SendInboxMessage implements api.ServerInterface.
func (h *Handler) SendInboxMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req api.SendInboxMessageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	outcome, err := h.service.Outbound.SendToClient(r.Context(), actor, req.ClientAssignmentID, req.Content)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, sendResponse(outcome))
}

// MarkRead implements api.ServerInterface.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req api.MarkReadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	if err := h.service.Inbox.MarkRead(actor, req.ClientAssignmentID); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"success": true})
}

// ImportResources implements api.ServerInterface.
func (h *Handler) ImportResources(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req api.ImportResourcesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	result, err := h.service.Imports.ImportToLine(actor, req.LineID, req.ResourceIDs)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.ImportResourcesResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped,
	})
}

// GetMessages implements api.ServerInterface.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, params api.GetMessagesParams) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	page, limit := normalizePage(params.Page, params.Limit)

	messages, total, err := h.service.Inbox.ListMessages(actor, page, limit)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.MessagesResponse{
		Messages:   messages,
		Pagination: paginate(page, limit, total),
	})
}

// GetInboundMessages implements api.ServerInterface.
func (h *Handler) GetInboundMessages(w http.ResponseWriter, r *http.Request, params api.GetInboundMessagesParams) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	page, limit := normalizePage(params.Page, params.Limit)

	messages, total, err := h.service.Inbox.ListInbound(actor, page, limit)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.InboundMessagesResponse{
		Messages:   messages,
		Pagination: paginate(page, limit, total),
	})
}
