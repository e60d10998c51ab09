package handlers

import (
	"context"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/identity"
)

// AnswerHandler invokes the grounded answer use case.
type AnswerHandler struct {
	service Augmenter
}

func NewAnswerHandler(service Augmenter) *AnswerHandler {
	return &AnswerHandler{service: service}
}

// Answer runs the orchestration for an authenticated caller.
func (h *AnswerHandler) Answer(ctx context.Context, req augment.Request, id identity.Identity) (*augment.Answer, error) {
	return h.service.Answer(ctx, req, id)
}
