package augment

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/codes"

	"github.com/corkapps/grounding-gateway/internal/domain/identity"
	"github.com/corkapps/grounding-gateway/internal/utils/platformerrors"
)

const defaultImageMIMEType = "image/jpeg"

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

const labelPrompt = `Read this wine label and answer with ONLY a JSON object in this shape:
{
  "name": "<wine name alone, without the producer>",
  "producer": "<house, château, domaine, estate or winery; never a legal entity such as S.A., SRL or GmbH>",
  "year": <vintage as a number, or null>,
  "region": "<region, country>",
  "grape": "<grape variety or varieties>",
  "type": "<red|white|rosé|sparkling|dessert>",
  "characteristics": {"boldness": <1-5>, "tannins": <1-5>, "acidity": <1-5>},
  "notes": "<short tasting notes for this style>",
  "drinkFrom": <first year of the drinking window, as a number>,
  "drinkUntil": <last year of the drinking window, as a number>
}

Estimate the drinking window from type, grape, region and vintage:
simple white or rosé 1-3 years after the vintage, quality white 3-10,
light red 2-7, medium red 5-15, full-bodied red 10-30 or more,
sparkling 1-5 (vintage Champagne 10-20), dessert 5-50 or more.

Examples: a Château Pétrus label gives name "Pétrus" and producer "Château Pétrus";
Tenuta San Guido Sassicaia gives name "Sassicaia" and producer "Tenuta San Guido".

Use null for anything that cannot be determined. Always guess a type from the name and region.`

// Image is an inline base64-encoded picture.
type Image struct {
	MIMEType string
	Data     string
}

// ParseImage accepts bare base64 data or a data URL. Bare data is assumed to be JPEG.
func ParseImage(raw string) Image {
	raw = strings.TrimSpace(raw)
	if m := dataURLPattern.FindStringSubmatch(raw); m != nil {
		return Image{MIMEType: m[1], Data: m[2]}
	}
	return Image{MIMEType: defaultImageMIMEType, Data: raw}
}

// DataURL renders the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// LabelRequest carries a photographed wine label.
type LabelRequest struct {
	ImageBase64 string
}

// LabelResult holds the label fields read by the model. Data is nil when the
// reply held no JSON object; Raw is always the unmodified reply.
type LabelResult struct {
	Data json.RawMessage
	Raw  string
}

func (r *LabelResult) Parsed() bool {
	return r != nil && r.Data != nil
}

// AnalyzeLabel asks the vision model to read a wine label. The label is not
// grounded on search results.
func (s *Service) AnalyzeLabel(ctx context.Context, req LabelRequest, id identity.Identity) (*LabelResult, error) {
	if !s.modelConfigured() {
		return nil, s.modelError(ctx, ErrModelNotConfigured)
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"No image provided", ErrInvalidRequest)
	}

	ctx, span := s.tracer.Start(ctx, "augment.AnalyzeLabel")
	defer span.End()

	image := ParseImage(req.ImageBase64)
	s.log.Debug().
		Str("subject", s.sanitizer.SanitizeSubject(id.Subject)).
		Str("mime_type", image.MIMEType).
		Int("image_bytes", len(image.Data)).
		Msg("analyzing label")

	modelCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()
	text, err := s.model.GenerateWithImage(modelCtx, Prompt(labelPrompt), image)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model invocation failed")
		return nil, s.modelError(ctx, err)
	}

	raw, err := extractJSONObject(text)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not parse label analysis")
		return &LabelResult{Raw: text}, nil
	}
	return &LabelResult{Data: json.RawMessage(raw), Raw: text}, nil
}
