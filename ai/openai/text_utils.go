package openai

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used when the embedding model is unknown to tiktoken.
const fallbackEncoding = "cl100k_base"

// collapseSpace trims text and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenBudget truncates text to a maximum number of tokens.
// The encoder is loaded on first use; if it cannot be loaded, text passes
// through unchanged and the server applies its own limit.
type tokenBudget struct {
	model     string
	maxTokens int
	logger    *slog.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func newTokenBudget(model string, maxTokens int, logger *slog.Logger) *tokenBudget {
	return &tokenBudget{model: model, maxTokens: maxTokens, logger: logger}
}

func (b *tokenBudget) encoder() *tiktoken.Tiktoken {
	b.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(b.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(fallbackEncoding)
		}
		if err != nil {
			b.logger.Warn("tokenizer unavailable, embedding input not truncated", "model", b.model, "err", err)
			return
		}
		b.enc = enc
	})
	return b.enc
}

// truncate returns text cut to at most maxTokens tokens.
func (b *tokenBudget) truncate(text string) string {
	if b == nil || b.maxTokens <= 0 {
		return text
	}
	// a token is never shorter than one byte
	if len(text) <= b.maxTokens {
		return text
	}
	enc := b.encoder()
	if enc == nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= b.maxTokens {
		return text
	}
	b.logger.Debug("truncating embedding input", "tokens", len(tokens), "max", b.maxTokens)
	return enc.Decode(tokens[:b.maxTokens])
}
