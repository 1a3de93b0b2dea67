package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// RatesDocument is the on-disk / S3 representation of the rate table.
type RatesDocument struct {
	Rates   map[string]Rate `json:"rates"`
	Default *Rate           `json:"default,omitempty"`
}

// Loader reads a shipping-rates JSON document.
type Loader interface {
	// Load reads and parses a rates document from the given location.
	Load(ctx context.Context, location string) (*RatesDocument, error)
}

// fileLoader implements Loader for local JSON files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based rates loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "shipping-rates-loader").Logger(),
	}
}

// Load reads a rates document from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) (*RatesDocument, error) {
	l.logger.Info().Str("file", path).Msg("loading shipping rates file")

	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read shipping rates file")
		return nil, fmt.Errorf("failed to read shipping rates file %s: %w", path, err)
	}

	doc, err := parseRates(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to parse shipping rates file")
		return nil, fmt.Errorf("failed to parse shipping rates file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("governorates", len(doc.Rates)).
		Msg("shipping rates file loaded successfully")

	return doc, nil
}

// parseRates decodes and validates a rates document.
func parseRates(data []byte) (*RatesDocument, error) {
	var doc RatesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if len(doc.Rates) == 0 {
		return nil, fmt.Errorf("rates document contains no governorates")
	}

	for governorate, rate := range doc.Rates {
		if rate.BaseRate < 0 || rate.FreeShippingThreshold < 0 || rate.EstimatedDeliveryDays < 1 {
			return nil, fmt.Errorf("invalid rate for governorate %q", governorate)
		}
	}

	return &doc, nil
}

// TableFromDocument builds a RateTable from a loaded document, using
// the built-in fallback when the document does not supply one.
func TableFromDocument(doc *RatesDocument) RateTable {
	fallback := DefaultFallback()
	if doc.Default != nil {
		fallback = *doc.Default
	}
	return NewTable(doc.Rates, fallback)
}
