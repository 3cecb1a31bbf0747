package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Provider webhooks (unauthenticated, provider-facing).
	TwilioInbound(w http.ResponseWriter, r *http.Request)
	InfobipInbound(w http.ResponseWriter, r *http.Request)
	DeliveryStatus(w http.ResponseWriter, r *http.Request)

	// Authenticated console API.
	SendMessage(w http.ResponseWriter, r *http.Request)
	SendInboxMessage(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	ImportResources(w http.ResponseWriter, r *http.Request)
	GetMessages(w http.ResponseWriter, r *http.Request, params GetMessagesParams)
	GetInboundMessages(w http.ResponseWriter, r *http.Request, params GetInboundMessagesParams)
	GetProviders(w http.ResponseWriter, r *http.Request)
	CreateProvider(w http.ResponseWriter, r *http.Request)
	TestProviderConnection(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// GetMessages operation middleware.
func (siw *ServerInterfaceWrapper) GetMessages(w http.ResponseWriter, r *http.Request) {
	var params GetMessagesParams

	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter page: %w", err))
		return
	}

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	siw.Handler.GetMessages(w, r, params)
}

// GetInboundMessages operation middleware.
func (siw *ServerInterfaceWrapper) GetInboundMessages(w http.ResponseWriter, r *http.Request) {
	var params GetInboundMessagesParams

	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter page: %w", err))
		return
	}

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	siw.Handler.GetInboundMessages(w, r, params)
}

// HandlerOptions configures the generated route table.
type HandlerOptions struct {
	BaseRouter chi.Router

	// AuthMiddleware guards the /api group. Webhooks and health stay open.
	AuthMiddleware func(http.Handler) http.Handler

	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts all routes on a chi router.
func Handler(si ServerInterface, options HandlerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}

	errFn := options.ErrorHandlerFunc
	if errFn == nil {
		errFn = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: errFn,
	}

	r.Get("/health", si.HealthCheck)

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/twilio", si.TwilioInbound)
		r.Post("/infobip", si.InfobipInbound)
		r.Post("/delivery", si.DeliveryStatus)
	})

	r.Route("/api", func(r chi.Router) {
		if options.AuthMiddleware != nil {
			r.Use(options.AuthMiddleware)
		}

		r.Post("/messages/send", si.SendMessage)
		r.Get("/messages", wrapper.GetMessages)
		r.Get("/inbound-messages", wrapper.GetInboundMessages)

		r.Post("/inbox/send-message", si.SendInboxMessage)
		r.Patch("/inbox/mark-read", si.MarkRead)

		r.Post("/user-resources/import-to-minichatroom", si.ImportResources)

		r.Get("/providers", si.GetProviders)
		r.Post("/providers", si.CreateProvider)
		r.Post("/providers/test-connection", si.TestProviderConnection)
	})

	return r
}
