package augment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkapps/grounding-gateway/internal/domain/search"
	"github.com/corkapps/grounding-gateway/internal/utils/platformerrors"
)

func TestLookupRequest_SearchTerms(t *testing.T) {
	tests := []struct {
		name string
		req  LookupRequest
		want string
	}{
		{"all fields", LookupRequest{Name: "Tignanello", Producer: "Antinori", Year: "2019", Region: "Toscana"}, "Antinori Tignanello 2019 Toscana"},
		{"name only", LookupRequest{Name: "Tignanello"}, "Tignanello"},
		{"blank fields skipped", LookupRequest{Name: "Tignanello", Producer: " ", Year: "2019"}, "Tignanello 2019"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.SearchTerms())
		})
	}
}

func TestLookupPrice_RequiresName(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeModel{}

	result, err := newTestService(searcher, model).LookupPrice(context.Background(), LookupRequest{Producer: "Antinori"}, caller)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Wine name is required", perr.Message)
	assert.Zero(t, searcher.calls)
	assert.Zero(t, model.calls)
}

func TestLookupPrice_UnconfiguredModelAnswersEmpty(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeModel{unconfigured: true}

	for _, req := range []LookupRequest{{}, {Name: "Tignanello"}} {
		result, err := newTestService(searcher, model).LookupPrice(context.Background(), req, caller)
		require.NoError(t, err)
		assert.Nil(t, result.Estimate)
		assert.Equal(t, "model provider not configured", result.Message)
	}
	assert.Zero(t, searcher.calls)
	assert.Zero(t, model.calls)
}

func TestLookupPrice_LenientFields(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantPrice *float64
		wantRange string
	}{
		{"quoted price", `{"price": "89.95", "priceRange": "85-95", "confidence": "medium"}`, ptr(89.95), "85-95"},
		{"currency text", `{"price": "€ 89,95", "confidence": "medium"}`, ptr(89.95), ""},
		{"numeric range", `{"price": 90, "priceRange": 85, "confidence": "low"}`, ptr(90), "85"},
		{"unreadable price", `{"price": "unknown", "confidence": "low"}`, nil, ""},
		{"reply is only JSON", `{"price": 12}`, ptr(12), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestService(&fakeSearcher{}, &fakeModel{reply: tt.reply}).LookupPrice(context.Background(), LookupRequest{Name: "Tignanello"}, caller)
			require.NoError(t, err)
			require.NotNil(t, result.Estimate, result.Message)
			if tt.wantPrice == nil {
				assert.Nil(t, result.Estimate.Price)
			} else {
				require.NotNil(t, result.Estimate.Price)
				assert.InDelta(t, *tt.wantPrice, *result.Estimate.Price, 0.001)
			}
			assert.Equal(t, tt.wantRange, result.Estimate.PriceRange)
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestLookupPrice_ParsesEstimate(t *testing.T) {
	searcher := &fakeSearcher{result: search.Ok(search.ResultSet{
		Organic: []search.OrganicResult{{Title: "Tignanello 2019", Snippet: "€ 89,95", Link: "https://shop.example/t"}},
	})}
	model := &fakeModel{reply: "Sure!\n```json\n{\"price\": 89.95, \"priceRange\": \"85-95\", \"source\": \"shop.example\", \"confidence\": \"high\"}\n```"}

	result, err := newTestService(searcher, model).LookupPrice(context.Background(), LookupRequest{Name: "Tignanello", Year: "2019"}, caller)
	require.NoError(t, err)

	assert.Equal(t, "Tignanello 2019", result.SearchTerms)
	require.NotNil(t, result.Estimate)
	require.NotNil(t, result.Estimate.Price)
	assert.InDelta(t, 89.95, *result.Estimate.Price, 0.001)
	assert.Equal(t, "85-95", result.Estimate.PriceRange)
	assert.Equal(t, "high", result.Estimate.Confidence)
	assert.Empty(t, result.Message)

	assert.Equal(t, "Tignanello 2019", searcher.queries[0].Text)
	prompt := model.prompts[0].String()
	assert.True(t, strings.HasPrefix(prompt, "1. Tignanello 2019\n€ 89,95\nURL: https://shop.example/t\n\n"))
	assert.Contains(t, prompt, `"Tignanello 2019"`)
}

func TestLookupPrice_NotFoundPrice(t *testing.T) {
	model := &fakeModel{reply: `{"price": null, "source": "not found", "confidence": "low"}`}

	result, err := newTestService(&fakeSearcher{}, model).LookupPrice(context.Background(), LookupRequest{Name: "Unknown"}, caller)
	require.NoError(t, err)
	require.NotNil(t, result.Estimate)
	assert.Nil(t, result.Estimate.Price)
	assert.Equal(t, "not found", result.Estimate.Source)
}

func TestLookupPrice_Degrades(t *testing.T) {
	tests := []struct {
		name        string
		model       *fakeModel
		wantMessage string
	}{
		{"model failure", &fakeModel{err: errors.New("boom")}, "model invocation failed"},
		{"model not configured", &fakeModel{err: ErrModelNotConfigured}, "model provider not configured"},
		{"no JSON", &fakeModel{reply: "I could not find it."}, "could not parse price estimate"},
		{"broken JSON", &fakeModel{reply: "{price: 12"}, "could not parse price estimate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestService(&fakeSearcher{}, tt.model).LookupPrice(context.Background(), LookupRequest{Name: "Tignanello"}, caller)
			require.NoError(t, err)
			assert.Nil(t, result.Estimate)
			assert.Equal(t, "Tignanello", result.SearchTerms)
			assert.Equal(t, tt.wantMessage, result.Message)
		})
	}
}
