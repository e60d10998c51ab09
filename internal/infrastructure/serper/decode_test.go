package serper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkapps/grounding-gateway/internal/domain/search"
)

func TestDecodeResultSet_AllSections(t *testing.T) {
	body := []byte(`{
		"searchParameters": {"q": "barolo", "type": "search"},
		"knowledgeGraph": {
			"title": "Barolo",
			"description": "Red wine from Piedmont",
			"attributes": {"Region": "Piedmont", "Grape": "Nebbiolo", "Aging": "38 months"}
		},
		"answerBox": {"title": "Barolo price", "snippet": "Around 40 EUR"},
		"organic": [
			{"title": "Barolo - Wikipedia", "link": "https://en.wikipedia.org/wiki/Barolo", "snippet": "Barolo is...", "position": 1},
			{"title": "Barolo wines", "link": "https://wine.example/barolo", "position": 2}
		]
	}`)

	set, err := decodeResultSet(body)
	require.NoError(t, err)

	require.NotNil(t, set.KnowledgeGraph)
	assert.Equal(t, "Barolo", set.KnowledgeGraph.Title)
	assert.Equal(t, []search.Attribute{
		{Key: "Region", Value: "Piedmont"},
		{Key: "Grape", Value: "Nebbiolo"},
		{Key: "Aging", Value: "38 months"},
	}, set.KnowledgeGraph.Attributes)

	require.NotNil(t, set.AnswerBox)
	assert.Empty(t, set.AnswerBox.Answer)
	assert.Equal(t, "Around 40 EUR", set.AnswerBox.Snippet)

	require.Len(t, set.Organic, 2)
	assert.Equal(t, "https://wine.example/barolo", set.Organic[1].Link)
	assert.Empty(t, set.Organic[1].Snippet)
}

func TestDecodeResultSet_EmptyObject(t *testing.T) {
	set, err := decodeResultSet([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestDecodeResultSet_IgnoresWrongShapes(t *testing.T) {
	set, err := decodeResultSet([]byte(`{"knowledgeGraph": "nope", "answerBox": [], "organic": {"title": "x"}}`))
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestDecodeResultSet_Malformed(t *testing.T) {
	for _, body := range []string{"", "not json", `{"organic": [`, `[1, 2]`, `"string"`} {
		t.Run(body, func(t *testing.T) {
			_, err := decodeResultSet([]byte(body))
			assert.ErrorIs(t, err, errMalformedResponse)
		})
	}
}
