package perception

import (
	"strings"

	"github.com/tsawler/prose/v3"
)

// textShape is the only information Honest Perception's text filters
// are allowed to read off of raw text: counts, never tokens. Using a
// real tokenizer (rather than strings.Fields) keeps sentence boundaries
// honest for punctuation-heavy or multi-clause messages, while the
// boundary itself guarantees no original token ever reaches the
// returned facts.
type textShape struct {
	words     int
	sentences int
	exclaim   bool
	question  bool
}

func shapeOf(text string) textShape {
	shape := textShape{
		exclaim:  strings.Contains(text, "!"),
		question: strings.Contains(text, "?"),
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		shape.words = len(strings.Fields(text))
		if shape.words > 0 {
			shape.sentences = 1
		}
		return shape
	}

	shape.sentences = len(doc.Sentences())
	shape.words = len(doc.Tokens())
	return shape
}
