package handlers

import (
	"context"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/identity"
)

// LabelHandler invokes the wine label analysis use case.
type LabelHandler struct {
	service Augmenter
}

func NewLabelHandler(service Augmenter) *LabelHandler {
	return &LabelHandler{service: service}
}

func (h *LabelHandler) AnalyzeLabel(ctx context.Context, req augment.LabelRequest, id identity.Identity) (*augment.LabelResult, error) {
	return h.service.AnalyzeLabel(ctx, req, id)
}
