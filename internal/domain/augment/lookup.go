package augment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/corkapps/grounding-gateway/internal/domain/identity"
	"github.com/corkapps/grounding-gateway/internal/domain/search"
	"github.com/corkapps/grounding-gateway/internal/utils/platformerrors"
)

var pricePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

const pricePromptTemplate = `Find the current retail price of this wine: "%s"

Use wine retailers, Vivino, Wine-Searcher or other wine shops as sources.
Prefer European prices in EUR.

Reply with ONLY a JSON object in this shape and nothing else:
{
  "price": <number, typical retail price in EUR>,
  "priceRange": "<min-max EUR, if prices vary>",
  "source": "<where the price was found>",
  "confidence": "<high|medium|low>"
}

When no reliable price can be found reply with:
{"price": null, "source": "not found", "confidence": "low"}`

// LookupRequest identifies one wine.
type LookupRequest struct {
	Name     string
	Producer string
	Year     string
	Region   string
}

// SearchTerms joins the non-empty fields as producer, name, year, region.
func (r LookupRequest) SearchTerms() string {
	terms := make([]string, 0, 4)
	for _, v := range []string{r.Producer, r.Name, r.Year, r.Region} {
		if v = strings.TrimSpace(v); v != "" {
			terms = append(terms, v)
		}
	}
	return strings.Join(terms, " ")
}

// PriceEstimate is the model's structured price answer. Fields are read
// leniently: a price sent as text such as "€ 89,95" still yields 89.95.
type PriceEstimate struct {
	Price      *float64 `json:"price"`
	PriceRange string   `json:"priceRange,omitempty"`
	Source     string   `json:"source,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
}

// LookupResult is returned for every well-formed lookup. A nil Estimate means
// no price could be produced; Message then says why.
type LookupResult struct {
	Estimate    *PriceEstimate
	SearchTerms string
	Message     string
}

// LookupPrice runs a grounded price query. Without a model the result is empty
// whatever the input. Otherwise only a missing name is an error; model and
// parse failures degrade to a result without an estimate.
func (s *Service) LookupPrice(ctx context.Context, req LookupRequest, id identity.Identity) (*LookupResult, error) {
	terms := req.SearchTerms()
	result := &LookupResult{SearchTerms: terms}

	if !s.modelConfigured() {
		result.Message = ErrModelNotConfigured.Error()
		return result, nil
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Wine name is required", ErrInvalidRequest)
	}

	ctx, span := s.tracer.Start(ctx, "augment.LookupPrice")
	defer span.End()

	log := s.log.With().
		Str("subject", s.sanitizer.SanitizeSubject(id.Subject)).
		Str("search_terms", s.sanitizer.SanitizeQuery(terms)).
		Logger()

	groundingContext, present := s.retrieve(ctx, search.NewQuery(terms, s.cfg.ResultCount))
	text, err := s.invoke(ctx, BuildPrompt(groundingContext, present, fmt.Sprintf(pricePromptTemplate, terms)))
	if err != nil {
		perr := s.modelError(ctx, err)
		result.Message = perr.Message
		return result, nil
	}

	estimate, err := parsePriceEstimate(text)
	if err != nil {
		log.Warn().Err(err).Msg("could not parse price estimate")
		result.Message = "could not parse price estimate"
		return result, nil
	}
	result.Estimate = estimate
	return result, nil
}

func parsePriceEstimate(text string) (*PriceEstimate, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}
	doc := gjson.Parse(raw)
	return &PriceEstimate{
		Price:      priceValue(doc.Get("price")),
		PriceRange: doc.Get("priceRange").String(),
		Source:     doc.Get("source").String(),
		Confidence: doc.Get("confidence").String(),
	}, nil
}

// priceValue accepts a JSON number or the first number inside a string.
func priceValue(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		price := v.Float()
		return &price
	case gjson.String:
		match := pricePattern.FindString(v.Str)
		if match == "" {
			return nil
		}
		price, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
		if err != nil {
			return nil
		}
		return &price
	default:
		return nil
	}
}
