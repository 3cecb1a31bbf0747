package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatlinehq/chatline/internal/api"
	"github.com/chatlinehq/chatline/internal/handler"
	"github.com/chatlinehq/chatline/internal/middleware"
)

func setupRouter(si api.ServerInterface, verifier middleware.Verifier) http.Handler {
	r := chi.NewRouter()

	options := api.HandlerOptions{
		BaseRouter:     r,
		AuthMiddleware: middleware.Auth(verifier),
	}

	if h, ok := si.(*handler.Handler); ok {
		options.ErrorHandlerFunc = h.BindParamError
	}

	return api.Handler(si, options)
}
