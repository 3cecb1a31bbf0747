package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/middleware"
	"github.com/chatlinehq/chatline/internal/service"
)

// emptyTwiML acknowledges a Twilio webhook without queueing a reply.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// TwilioInbound implements api.ServerInterface. Twilio posts inbound SMS as
// form-urlencoded fields and expects a TwiML document back.
func (h *Handler) TwilioInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	event := service.InboundEvent{
		From:              r.PostFormValue("From"),
		To:                r.PostFormValue("To"),
		Body:              r.PostFormValue("Body"),
		ProviderMessageID: r.PostFormValue("MessageSid"),
	}

	result, err := h.service.Inbound.Resolve(r.Context(), event)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	if result.Duplicate {
		h.logger.Info("Duplicate inbound delivery acknowledged",
			zap.String("external_id", event.ProviderMessageID))
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(emptyTwiML))
}

type infobipInboundResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
}

type infobipInboundPayload struct {
	Results []infobipInboundResult `json:"results"`
}

// InfobipInbound implements api.ServerInterface. Infobip batches deliveries;
// each result resolves independently so one bad entry never blocks the rest.
func (h *Handler) InfobipInbound(w http.ResponseWriter, r *http.Request) {
	var payload infobipInboundPayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	if len(payload.Results) == 0 {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Payload carries no results")
		return
	}

	processed := 0
	failed := 0
	var storeErr error

	for _, res := range payload.Results {
		event := service.InboundEvent{
			From:              res.From,
			To:                res.To,
			Body:              res.Text,
			ProviderMessageID: res.MessageID,
		}

		if _, err := h.service.Inbound.Resolve(r.Context(), event); err != nil {
			h.logger.Warn("Inbound result failed to resolve",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("external_id", res.MessageID),
				zap.Error(err))

			// Malformed or unroutable entries are dead on arrival and only
			// counted. Anything else is a storage failure: the batch must be
			// redelivered, so remember it and answer 5xx below.
			if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrUnroutableDestination) {
				failed++
				continue
			}
			storeErr = err
			continue
		}
		processed++
	}

	if storeErr != nil {
		// Stored results claimed their provider ids, so the redelivered
		// batch only retries what actually failed.
		h.sendServiceError(w, r, storeErr)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"processed": processed,
		"failed":    failed,
	})
}

// DeliveryStatus implements api.ServerInterface. Status callbacks are always
// acknowledged: a callback for an unknown or already-final message is the
// provider's retry problem, not an error of ours.
func (h *Handler) DeliveryStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, errorMessageInvalidBody)
		return
	}

	externalID := r.PostFormValue("MessageSid")
	status := r.PostFormValue("MessageStatus")
	if externalID == "" || status == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "MessageSid and MessageStatus are required")
		return
	}

	applied, err := h.service.Delivery.HandleStatusCallback(r.Context(), externalID, status)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	if !applied {
		h.logger.Info("Status callback ignored",
			zap.String("external_id", externalID),
			zap.String("status", status))
	}

	w.WriteHeader(http.StatusNoContent)
}
