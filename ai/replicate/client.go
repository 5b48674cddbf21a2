package replicate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultBaseURL is the public Replicate API endpoint.
	DefaultBaseURL = "https://api.replicate.com"

	defaultPollInterval = time.Second
	defaultMaxPolls     = 300
)

// Prediction statuses.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Prediction is the subset of the Replicate prediction object the client uses.
type Prediction struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Input  map[string]any `json:"input,omitempty"`
	Output any            `json:"output,omitempty"`
	Error  any            `json:"error,omitempty"`
}

// Done reports whether the prediction reached a terminal status.
func (p *Prediction) Done() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Outputs returns the output as a list of strings. A scalar string output
// becomes a one-element list.
func (p *Prediction) Outputs() []string {
	switch out := p.Output.(type) {
	case string:
		return []string{out}
	case []any:
		parts := make([]string, 0, len(out))
		for _, v := range out {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		return parts
	}
	return nil
}

type createRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

// Client talks to the Replicate predictions API.
type Client struct {
	http         *resty.Client
	pollInterval time.Duration
	maxPolls     uint64
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(strings.TrimSuffix(url, "/"))
	}
}

// WithPollInterval sets the delay between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithMaxPolls bounds the number of status checks per prediction.
func WithMaxPolls(n uint64) Option {
	return func(c *Client) {
		c.maxPolls = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "replicate")
	}
}

// NewClient creates a client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetAuthToken(token).
			SetHeader("Content-Type", "application/json").
			SetTimeout(60 * time.Second),
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		logger:       slog.Default().With("component", "replicate"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePrediction starts a prediction. version may be a bare version hash or
// an "owner/model:version" reference.
func (c *Client) CreatePrediction(ctx context.Context, version string, input map[string]any) (*Prediction, error) {
	var p Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createRequest{Version: versionHash(version), Input: input}).
		SetResult(&p).
		Post("/v1/predictions")
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: create prediction: %s: %s", ErrAPI, resp.Status(), resp.String())
	}
	c.logger.Debug("prediction created", "id", p.ID, "status", p.Status)
	return &p, nil
}

// GetPrediction fetches the current state of a prediction.
func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	var p Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&p).
		SetPathParam("id", id).
		Get("/v1/predictions/{id}")
	if err != nil {
		return nil, fmt.Errorf("get prediction %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get prediction %s: %s: %s", ErrAPI, id, resp.Status(), resp.String())
	}
	return &p, nil
}

// Wait polls a prediction at a constant interval until it finishes.
func (c *Client) Wait(ctx context.Context, p *Prediction) (*Prediction, error) {
	if p.Done() {
		return finished(p)
	}

	backoff := retry.WithMaxRetries(c.maxPolls, retry.NewConstant(c.pollInterval))
	current, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (*Prediction, error) {
		next, err := c.GetPrediction(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if !next.Done() {
			return nil, retry.RetryableError(fmt.Errorf("%w: %s is %s", ErrPredictionTimeout, next.ID, next.Status))
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return finished(current)
}

// Run creates a prediction, waits for it and returns its outputs.
func (c *Client) Run(ctx context.Context, version string, input map[string]any) ([]string, error) {
	p, err := c.CreatePrediction(ctx, version, input)
	if err != nil {
		return nil, err
	}
	p, err = c.Wait(ctx, p)
	if err != nil {
		return nil, err
	}
	out := p.Outputs()
	if len(out) == 0 {
		return nil, ErrEmptyOutput
	}
	return out, nil
}

func finished(p *Prediction) (*Prediction, error) {
	if p.Status != StatusSucceeded {
		return nil, fmt.Errorf("%w: %s is %s: %v", ErrPredictionFailed, p.ID, p.Status, p.Error)
	}
	return p, nil
}

// versionHash strips an "owner/model:" prefix from a version reference.
func versionHash(version string) string {
	if i := strings.LastIndexByte(version, ':'); i >= 0 {
		return version[i+1:]
	}
	return version
}
