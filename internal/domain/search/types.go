package search

import "context"

const (
	// DefaultResultCount is the organic result bound used when the caller sets none.
	DefaultResultCount = 5
	// MaxResultCount caps the bound sent to the provider.
	MaxResultCount = 20
)

// Query is a single web-search request.
type Query struct {
	Text string
	Num  int
}

// NewQuery keeps the text verbatim and clamps the bound to [1, MaxResultCount].
// A non-positive bound falls back to DefaultResultCount.
func NewQuery(text string, num int) Query {
	return Query{Text: text, Num: clampCount(num)}
}

func clampCount(num int) int {
	switch {
	case num <= 0:
		return DefaultResultCount
	case num > MaxResultCount:
		return MaxResultCount
	default:
		return num
	}
}

// Attribute is one knowledge-graph fact. Order within KnowledgeGraph.Attributes follows the provider.
type Attribute struct {
	Key   string
	Value string
}

// KnowledgeGraph summarizes a single entity.
type KnowledgeGraph struct {
	Title       string
	Description string
	Attributes  []Attribute
}

// AnswerBox is a direct answer. Answer wins over Snippet when both are set.
type AnswerBox struct {
	Title   string
	Answer  string
	Snippet string
}

// Text returns the answer, or the snippet when no direct answer exists.
func (a AnswerBox) Text() string {
	if a.Answer != "" {
		return a.Answer
	}
	return a.Snippet
}

// OrganicResult is a ranked web hit.
type OrganicResult struct {
	Title   string
	Snippet string
	Link    string
}

// ResultSet is the typed provider payload. Every section is optional and an
// entirely empty set is valid.
type ResultSet struct {
	KnowledgeGraph *KnowledgeGraph
	AnswerBox      *AnswerBox
	Organic        []OrganicResult
}

// IsEmpty reports whether no section is present.
func (r ResultSet) IsEmpty() bool {
	return r.KnowledgeGraph == nil && r.AnswerBox == nil && len(r.Organic) == 0
}

// Client issues one search per call and never fails: problems come back as Unavailable.
type Client interface {
	Search(ctx context.Context, query Query) Result
}
