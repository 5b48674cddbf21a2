package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	qaInputKey   = "query"
	qaTextKey    = "text"
	qaSourcesKey = "source_documents"
)

// Answer is the result of a question answered over retrieved chunks.
type Answer struct {
	Question string
	Text     string
	Sources  []schema.Document
}

// QA answers questions with a retrieval QA chain that stuffs the retrieved
// chunks into a single prompt.
type QA struct {
	chain   chains.RetrievalQA
	options []chains.ChainCallOption
}

// QAOption configures a QA.
type QAOption func(*QA)

// WithTemperature sets the sampling temperature of the answering call.
func WithTemperature(temperature float64) QAOption {
	return func(q *QA) {
		q.options = append(q.options, chains.WithTemperature(temperature))
	}
}

// WithMaxTokens caps the length of the answer.
func WithMaxTokens(maxTokens int) QAOption {
	return func(q *QA) {
		q.options = append(q.options, chains.WithMaxTokens(maxTokens))
	}
}

// NewQA creates a QA over model and retriever.
func NewQA(model llms.Model, retriever schema.Retriever, opts ...QAOption) (*QA, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if retriever == nil {
		return nil, ErrSearcherRequired
	}

	chain := chains.NewRetrievalQAFromLLM(model, retriever)
	chain.ReturnSourceDocuments = true

	q := &QA{chain: chain}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Ask answers query. A blank query returns ErrEmptyQuery.
func (q *QA) Ask(ctx context.Context, query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	out, err := chains.Call(ctx, q.chain, map[string]any{qaInputKey: query}, q.options...)
	if err != nil {
		return nil, fmt.Errorf("answer query: %w", err)
	}

	answer := &Answer{Question: query}
	if text, ok := out[qaTextKey].(string); ok {
		answer.Text = strings.TrimSpace(text)
	}
	if sources, ok := out[qaSourcesKey].([]schema.Document); ok {
		answer.Sources = sources
	}
	return answer, nil
}
