package openai

import (
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// tokenCounter wraps a tiktoken codec for history budgeting.
type tokenCounter struct {
	codec tokenizer.Codec
}

func newTokenCounter(model string) (*tokenCounter, error) {
	codec, err := tokenizer.Get(encodingForModel(model))
	if err != nil {
		return nil, err
	}
	return &tokenCounter{codec: codec}, nil
}

// tokensPerMessage is the chat-format overhead OpenAI documents per
// message (3 per message plus 1 for the role).
const tokensPerMessage = 4

func (c *tokenCounter) count(text string) int {
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		// Fall back to a rough estimate rather than failing the call.
		return len(text)/4 + tokensPerMessage
	}
	return len(ids) + tokensPerMessage
}

func encodingForModel(model string) tokenizer.Encoding {
	switch {
	case strings.HasPrefix(model, "gpt-4o"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "gpt-5"):
		return tokenizer.O200kBase
	case strings.HasPrefix(model, "gpt-4"), strings.HasPrefix(model, "gpt-3.5"):
		return tokenizer.Cl100kBase
	default:
		// Most likely encoding for unknown/future models.
		return tokenizer.O200kBase
	}
}
