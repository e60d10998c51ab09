package search

import (
	"strconv"
	"strings"
)

const blockSeparator = "\n\n"

// Format renders a result set as a grounding block for prompt injection.
// The output depends only on the input: knowledge graph first, then the answer
// box, then organic results numbered from 1 in provider order. It returns
// false when no section is present.
func Format(set ResultSet) (string, bool) {
	blocks := make([]string, 0, len(set.Organic)+2)

	if kg := set.KnowledgeGraph; kg != nil {
		var b strings.Builder
		b.WriteString("[Knowledge Graph] ")
		b.WriteString(kg.Title)
		b.WriteString(": ")
		b.WriteString(kg.Description)
		for _, attr := range kg.Attributes {
			b.WriteString("\n  ")
			b.WriteString(attr.Key)
			b.WriteString(": ")
			b.WriteString(attr.Value)
		}
		blocks = append(blocks, b.String())
	}

	if box := set.AnswerBox; box != nil {
		blocks = append(blocks, "[Answer] "+box.Title+": "+box.Text())
	}

	for i, result := range set.Organic {
		blocks = append(blocks, strconv.Itoa(i+1)+". "+result.Title+"\n"+result.Snippet+"\nURL: "+result.Link)
	}

	if len(blocks) == 0 {
		return "", false
	}
	return strings.Join(blocks, blockSeparator), true
}
