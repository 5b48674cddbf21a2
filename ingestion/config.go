package ingestion

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the settings the CLI gathers for an ingestion run.
type Config struct {
	SourceDir    string   `validate:"required"`
	Extensions   []string `validate:"omitempty,dive,startswith=."`
	ChunkSize    int      `validate:"gt=0"`
	ChunkOverlap int      `validate:"gte=0,ltfield=ChunkSize"`
	BatchSize    int      `validate:"gt=0"`
	PoolSize     int      `validate:"gte=0"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SourceDir:    "source_documents",
		ChunkSize:    500,
		ChunkOverlap: 50,
		BatchSize:    DefaultBatchSize,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid ingestion config: %w", err)
	}
	return nil
}
