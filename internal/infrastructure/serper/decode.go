package serper

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/corkapps/grounding-gateway/internal/domain/search"
)

var errMalformedResponse = errors.New("malformed search response")

// decodeResultSet validates a Serper payload and maps the sections we use.
// Unknown fields are ignored; attribute order follows the document.
func decodeResultSet(body []byte) (search.ResultSet, error) {
	if !gjson.ValidBytes(body) {
		return search.ResultSet{}, errMalformedResponse
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return search.ResultSet{}, errMalformedResponse
	}

	var set search.ResultSet

	if kg := root.Get("knowledgeGraph"); kg.IsObject() {
		graph := &search.KnowledgeGraph{
			Title:       kg.Get("title").String(),
			Description: kg.Get("description").String(),
		}
		if attrs := kg.Get("attributes"); attrs.IsObject() {
			attrs.ForEach(func(key, value gjson.Result) bool {
				graph.Attributes = append(graph.Attributes, search.Attribute{Key: key.String(), Value: value.String()})
				return true
			})
		}
		set.KnowledgeGraph = graph
	}

	if box := root.Get("answerBox"); box.IsObject() {
		set.AnswerBox = &search.AnswerBox{
			Title:   box.Get("title").String(),
			Answer:  box.Get("answer").String(),
			Snippet: box.Get("snippet").String(),
		}
	}

	if organic := root.Get("organic"); organic.IsArray() {
		organic.ForEach(func(_, item gjson.Result) bool {
			if item.IsObject() {
				set.Organic = append(set.Organic, search.OrganicResult{
					Title:   item.Get("title").String(),
					Snippet: item.Get("snippet").String(),
					Link:    item.Get("link").String(),
				})
			}
			return true
		})
	}

	return set, nil
}
