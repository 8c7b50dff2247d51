package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is the final state of a run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunPlanned   RunStatus = "planned"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown    RunErrorKind = "unknown"
	RunErrorCanceled   RunErrorKind = "canceled"
	RunErrorManifest   RunErrorKind = "manifest"
	RunErrorDeck       RunErrorKind = "deck"
	RunErrorInstrument RunErrorKind = "instrument"
)

// RunError represents a structured error recorded in a run artifact.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// ClassifyRunError maps an error chain to a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	switch {
	case err == nil:
		return RunErrorUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return RunErrorCanceled
	case IsKind(err, KindInstrument):
		return RunErrorInstrument
	case IsKind(err, KindNotFound):
		return RunErrorDeck
	case IsKind(err, KindInvalidManifest):
		return RunErrorManifest
	default:
		return RunErrorUnknown
	}
}

// NewRunError builds a RunError from err, or nil when err is nil.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{Kind: ClassifyRunError(err), Message: err.Error()}
}

// TransferResult is the outcome of a single transfer request.
type TransferResult struct {
	Row         int
	Source      Well
	Destination Well
	Volume      decimal.Decimal

	MixVolume decimal.Decimal
	Chunks    []decimal.Decimal
	Dispensed []decimal.Decimal
	TipsUsed  int

	Steps []Step
	Error *RunError
}

// Failed reports whether the transfer did not complete.
func (r TransferResult) Failed() bool { return r.Error != nil }

// RunArtifact is the persisted record of a run.
type RunArtifact struct {
	ID string

	ManifestName string
	ManifestPath string
	Pipette      string
	Status       RunStatus

	StartedAt time.Time
	EndedAt   time.Time

	Summary  ManifestSummary
	Deck     DeckLayout
	Results  []TransferResult
	Comments []string
	Error    *RunError
}
