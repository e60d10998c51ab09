package handlers

import (
	"context"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/identity"
)

// Augmenter is the domain surface the HTTP layer needs.
type Augmenter interface {
	Answer(ctx context.Context, req augment.Request, id identity.Identity) (*augment.Answer, error)
	LookupPrice(ctx context.Context, req augment.LookupRequest, id identity.Identity) (*augment.LookupResult, error)
	AnalyzeLabel(ctx context.Context, req augment.LabelRequest, id identity.Identity) (*augment.LabelResult, error)
}

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Answer *AnswerHandler
	Lookup *LookupHandler
	Label  *LabelHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(service Augmenter) *Provider {
	return &Provider{
		Answer: NewAnswerHandler(service),
		Lookup: NewLookupHandler(service),
		Label:  NewLabelHandler(service),
	}
}
