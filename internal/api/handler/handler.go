package handler

import (
	"sparmatch/backend/internal/relay"
	"sparmatch/backend/internal/storage"
)

// Handler carries the dependencies shared by the HTTP endpoints.
type Handler struct {
	Registry  *relay.Registry
	Router    *relay.Router
	Storage   storage.Storage
	JWTSecret []byte
}

func NewHandler(reg *relay.Registry, router *relay.Router, s storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{
		Registry:  reg,
		Router:    router,
		Storage:   s,
		JWTSecret: jwtSecret,
	}
}
