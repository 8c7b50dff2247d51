package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

// Apply overlays parsed values on top of base and validates the result.
func Apply(path string, base domain.Config, y yamlRoot) (domain.Config, error) {
	cfg := base

	if y.Deck.SourcePlates != nil {
		cfg.Deck.SourcePlates = *y.Deck.SourcePlates
	}
	if y.Deck.DestinationPlates != nil {
		cfg.Deck.DestinationPlates = *y.Deck.DestinationPlates
	}
	if y.Deck.TipRacks != nil {
		cfg.Deck.TipRacks = *y.Deck.TipRacks
	}
	if s := strings.TrimSpace(y.Deck.PlateLabware); s != "" {
		cfg.Deck.PlateLabware = s
	}
	if s := strings.TrimSpace(y.Deck.TipRackLabware); s != "" {
		cfg.Deck.TipRackLabware = s
	}

	if s := strings.TrimSpace(y.Pipette.Name); s != "" {
		cfg.Pipette.Name = s
	}
	if s := strings.TrimSpace(y.Pipette.Mount); s != "" {
		cfg.Pipette.Mount = s
	}
	if s := strings.TrimSpace(y.Pipette.MaxVolume); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return cfg, invalidField(path, "pipette.max_volume", fmt.Sprintf("%q is not a number", s))
		}
		cfg.Pipette.MaxVolume = v
	}

	if s := strings.TrimSpace(y.Defaults.Manifest); s != "" {
		cfg.Defaults.Manifest = s
	}
	if s := strings.TrimSpace(y.Paths.ManifestsDir); s != "" {
		cfg.Paths.ManifestsDir = s
	}
	if s := strings.TrimSpace(y.Paths.RunsDir); s != "" {
		cfg.Paths.RunsDir = s
	}

	if err := validate(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(path string, cfg domain.Config) error {
	if n := cfg.Deck.SourcePlates; n < 1 || n > domain.MaxSourcePlates {
		return invalidField(path, "deck.source_plates", fmt.Sprintf("must be 1-%d, got %d", domain.MaxSourcePlates, n))
	}
	if n := cfg.Deck.DestinationPlates; n < 1 || n > domain.MaxDestinationPlates {
		return invalidField(path, "deck.destination_plates", fmt.Sprintf("must be 1-%d, got %d", domain.MaxDestinationPlates, n))
	}
	if n := cfg.Deck.TipRacks; n < 1 || n > domain.MaxTipRacks {
		return invalidField(path, "deck.tip_racks", fmt.Sprintf("must be 1-%d, got %d", domain.MaxTipRacks, n))
	}
	if !cfg.Pipette.MaxVolume.IsPositive() {
		return invalidField(path, "pipette.max_volume", "must be > 0")
	}
	switch cfg.Pipette.Mount {
	case "left", "right":
	default:
		return invalidField(path, "pipette.mount", fmt.Sprintf("unsupported mount %q (expected left|right)", cfg.Pipette.Mount))
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
