package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyRunError_Canceled(t *testing.T) {
	if got := ClassifyRunError(fmt.Errorf("row 2: %w", context.Canceled)); got != RunErrorCanceled {
		t.Fatalf("expected canceled, got=%s", got)
	}
	if got := ClassifyRunError(context.DeadlineExceeded); got != RunErrorCanceled {
		t.Fatalf("expected canceled, got=%s", got)
	}
}

func TestClassifyRunError_Instrument(t *testing.T) {
	err := fmt.Errorf("row 4: %w", &OpError{Op: "simulator.dispense", Kind: KindInstrument, Err: ErrNoTip})
	if got := ClassifyRunError(err); got != RunErrorInstrument {
		t.Fatalf("expected instrument, got=%s", got)
	}
}

func TestClassifyRunError_Deck(t *testing.T) {
	err := &OpError{Op: "deck.well", Kind: KindNotFound, Err: ErrNotFound}
	if got := ClassifyRunError(err); got != RunErrorDeck {
		t.Fatalf("expected deck, got=%s", got)
	}
}

func TestClassifyRunError_Manifest(t *testing.T) {
	err := &ValidationError{Issues: []string{"Row 2: bad"}}
	if got := ClassifyRunError(err); got != RunErrorManifest {
		t.Fatalf("expected manifest, got=%s", got)
	}
}

func TestClassifyRunError_Unknown(t *testing.T) {
	if got := ClassifyRunError(errors.New("boom")); got != RunErrorUnknown {
		t.Fatalf("expected unknown, got=%s", got)
	}
}

func TestNewRunError(t *testing.T) {
	if NewRunError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	re := NewRunError(&OpError{Op: "simulator.aspirate", Kind: KindInstrument, Err: ErrOverCapacity})
	if re == nil || re.Kind != RunErrorInstrument {
		t.Fatalf("expected instrument run error, got %+v", re)
	}
	if re.Message == "" {
		t.Fatalf("expected message")
	}
}
