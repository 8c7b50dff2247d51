package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/xferbot/internal/domain"
)

func TestPlanManifest_DryRun(t *testing.T) {
	cfg := domain.DefaultConfig()
	m := demoManifest(
		req(2, 1, "a1", 1, "h12", "0.3"),
		req(3, 1, "A1", 2, "B2", "40"),
	)
	store := &fakeStore{}

	uc := NewPlanManifest(fakeManifestLoader{m: m}, newDeck(t, cfg), store, cfg, fixedIDs())
	run, id, err := uc.Execute(context.Background(), "demo.csv")
	require.NoError(t, err)
	assert.Equal(t, "run-123", id)
	assert.True(t, store.saved)
	assert.Equal(t, domain.RunPlanned, run.Status)
	assert.Equal(t, "fixed-id", run.ID)
	require.Len(t, run.Results, 2)

	tiny := run.Results[0]
	assert.Equal(t, "A1", tiny.Source.Name)
	assert.Equal(t, "H12", tiny.Destination.Name)
	assert.Len(t, tiny.Chunks, 1)
	assert.Equal(t, 1, tiny.TipsUsed)
	for _, s := range tiny.Steps {
		assert.NotEqual(t, domain.OpAirGap, s.Op, "0.3 µL must not take an air gap")
	}

	big := run.Results[1]
	assert.Len(t, big.Chunks, 3)
	assert.Equal(t, "20", big.MixVolume.String())

	// Same source well twice is marked once.
	assert.Len(t, run.Deck.Loads, 1)
	assert.Equal(t, "0.3", run.Deck.Loads[0].Volume.String())
	assert.Equal(t, 2, run.Summary.TipsNeeded)
}

func TestPlanManifest_NoStore(t *testing.T) {
	cfg := domain.DefaultConfig()
	m := demoManifest(req(2, 1, "A1", 1, "A1", "19"))

	uc := NewPlanManifest(fakeManifestLoader{m: m}, newDeck(t, cfg), nil, cfg)
	run, id, err := uc.Execute(context.Background(), "demo.csv")
	require.NoError(t, err)
	assert.Empty(t, id)
	require.Len(t, run.Results, 1)
	assert.Len(t, run.Results[0].Chunks, 1, "19 µL is a direct transfer")
}

func TestPlanManifest_ValidationError(t *testing.T) {
	cfg := domain.DefaultConfig()
	m := demoManifest(req(2, 1, "A1", 4, "A1", "5"))
	store := &fakeStore{}

	uc := NewPlanManifest(fakeManifestLoader{m: m}, newDeck(t, cfg), store, cfg)
	_, _, err := uc.Execute(context.Background(), "demo.csv")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidManifest))
	assert.False(t, store.saved)
}
