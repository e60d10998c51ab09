package handlers

import (
	"context"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/identity"
)

// LookupHandler invokes the grounded price lookup use case.
type LookupHandler struct {
	service Augmenter
}

func NewLookupHandler(service Augmenter) *LookupHandler {
	return &LookupHandler{service: service}
}

func (h *LookupHandler) LookupPrice(ctx context.Context, req augment.LookupRequest, id identity.Identity) (*augment.LookupResult, error) {
	return h.service.LookupPrice(ctx, req, id)
}
