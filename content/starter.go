package content

import (
	"context"
	"strings"

	"github.com/poiesic/threadoor/chain"
	"github.com/poiesic/threadoor/core"
)

// Starter writes a thread starter tweet and a Midjourney prompt.
type Starter struct {
	sequence *chain.Sequence
}

// NewStarter creates a starter around a starter sequence.
func NewStarter(sequence *chain.Sequence) (*Starter, error) {
	if sequence == nil {
		return nil, ErrSequenceRequired
	}
	return &Starter{sequence: sequence}, nil
}

// Generate runs the sequence for a subject and an ideal customer persona.
func (s *Starter) Generate(ctx context.Context, subject, customer string) ([]core.Artifact, error) {
	subject, customer = strings.TrimSpace(subject), strings.TrimSpace(customer)
	if subject == "" || customer == "" {
		return nil, ErrEmptyInput
	}
	result, err := s.sequence.Run(ctx, map[string]string{
		chain.VarSubject:  subject,
		chain.VarCustomer: customer,
	})
	if err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}
