package chain

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/poiesic/threadoor/core"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
)

// Result holds the outputs of a sequence run.
type Result struct {
	// Artifacts are the role outputs in role order.
	Artifacts []core.Artifact
	// Variables holds the initial inputs plus every output.
	Variables map[string]string
}

// Artifact returns the output stored under key.
func (r *Result) Artifact(key string) (string, bool) {
	for _, a := range r.Artifacts {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

type step struct {
	role  Role
	chain *chains.LLMChain
}

// Sequence runs roles in order, accumulating their outputs as variables.
type Sequence struct {
	steps       []step
	temperature *float64
	maxTokens   int
	logger      *slog.Logger
}

// Option configures a Sequence.
type Option func(*Sequence)

// WithTemperature sets the sampling temperature of text roles. Zero is sent
// as zero; without this option the model's own default applies.
func WithTemperature(t float64) Option {
	return func(s *Sequence) { s.temperature = &t }
}

// WithMaxTokens caps the completion length of text roles.
func WithMaxTokens(n int) Option {
	return func(s *Sequence) { s.maxTokens = n }
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequence) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSequence validates roles and binds text roles to model and image roles
// to imageModel. imageModel may be nil when no role needs it.
func NewSequence(roles []Role, model, imageModel llms.Model, opts ...Option) (*Sequence, error) {
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}

	s := &Sequence{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "chain")

	seen := make(map[string]bool, len(roles))
	for _, role := range roles {
		if err := role.Validate(); err != nil {
			return nil, err
		}
		if seen[role.OutputKey] {
			return nil, fmt.Errorf("%w %q", ErrDuplicateOutputKey, role.OutputKey)
		}
		seen[role.OutputKey] = true

		m := model
		if role.Image {
			m = imageModel
		}
		if m == nil {
			return nil, fmt.Errorf("%w for role %q", ErrModelRequired, role.Name)
		}

		c := chains.NewLLMChain(m, role.prompt())
		c.OutputKey = role.OutputKey
		s.steps = append(s.steps, step{role: role, chain: c})
	}
	return s, nil
}

// Roles returns the roles in run order.
func (s *Sequence) Roles() []Role {
	out := make([]Role, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.role
	}
	return out
}

// Run executes every role in order. Each role reads its input variables from
// inputs and the outputs of the roles before it.
func (s *Sequence) Run(ctx context.Context, inputs map[string]string) (*Result, error) {
	vars := maps.Clone(inputs)
	if vars == nil {
		vars = make(map[string]string)
	}
	result := &Result{Variables: vars}

	for _, st := range s.steps {
		values, err := st.role.inputs(vars)
		if err != nil {
			return nil, err
		}

		s.logger.Info("running role", "role", st.role.Name, "output", st.role.OutputKey)
		out, err := chains.Call(ctx, st.chain, values, s.callOptions(st.role)...)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", st.role.Name, err)
		}

		text, _ := out[st.role.OutputKey].(string)
		text = strings.TrimSpace(text)
		s.logger.Debug("role complete", "role", st.role.Name, "chars", len(text))

		vars[st.role.OutputKey] = text
		result.Artifacts = append(result.Artifacts, core.Artifact{Key: st.role.OutputKey, Value: text})
	}
	return result, nil
}

func (s *Sequence) callOptions(role Role) []chains.ChainCallOption {
	if role.Image {
		return nil
	}
	var opts []chains.ChainCallOption
	if s.temperature != nil {
		opts = append(opts, chains.WithTemperature(*s.temperature))
	}
	if s.maxTokens > 0 {
		opts = append(opts, chains.WithMaxTokens(s.maxTokens))
	}
	return opts
}
