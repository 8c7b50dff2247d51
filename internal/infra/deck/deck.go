// Package deck places labware in deck slots, resolves well addresses and keeps
// the starting-liquid map shown by deck visualizers.
package deck

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

var (
	sourceSlots      = []int{4, 5, 6, 7, 8}
	destinationSlots = []int{1, 2, 3}
	tipRackSlots     = []int{10, 11}

	// One display colour per source plate.
	palette = []string{"#FF0000", "#00A651", "#FF8C00", "#8E44AD", "#0066FF"}
)

type liquidKey struct {
	plate int
	well  string
}

type Deck struct {
	cfg domain.DeckConfig

	labware []domain.Labware
	liquids []domain.Liquid
	loads   []domain.LiquidLoad
	marked  map[liquidKey]struct{}
}

var _ ports.Deck = (*Deck)(nil)

// New lays out the deck described by cfg.
func New(cfg domain.DeckConfig) (*Deck, error) {
	if err := checkCount("source plates", cfg.SourcePlates, len(sourceSlots)); err != nil {
		return nil, err
	}
	if err := checkCount("destination plates", cfg.DestinationPlates, len(destinationSlots)); err != nil {
		return nil, err
	}
	if err := checkCount("tip racks", cfg.TipRacks, len(tipRackSlots)); err != nil {
		return nil, err
	}

	d := &Deck{
		cfg:    cfg,
		marked: map[liquidKey]struct{}{},
	}

	for i := 0; i < cfg.SourcePlates; i++ {
		plate := i + 1
		d.labware = append(d.labware, domain.Labware{
			Slot:     sourceSlots[i],
			LoadName: cfg.PlateLabware,
			Label:    fmt.Sprintf("Source Plate %d", plate),
			Role:     domain.RoleSource,
			Plate:    plate,
		})
		d.liquids = append(d.liquids, domain.Liquid{
			Name:        liquidName(plate),
			Description: fmt.Sprintf("Sample liquid in source plate %d", plate),
			Color:       palette[i%len(palette)],
		})
	}
	for i := 0; i < cfg.DestinationPlates; i++ {
		plate := i + 1
		d.labware = append(d.labware, domain.Labware{
			Slot:     destinationSlots[i],
			LoadName: cfg.PlateLabware,
			Label:    fmt.Sprintf("Destination Plate %d", plate),
			Role:     domain.RoleDestination,
			Plate:    plate,
		})
	}
	for i := 0; i < cfg.TipRacks; i++ {
		d.labware = append(d.labware, domain.Labware{
			Slot:     tipRackSlots[i],
			LoadName: cfg.TipRackLabware,
			Label:    fmt.Sprintf("Tip Rack %d", i+1),
			Role:     domain.RoleTipRack,
			Plate:    i + 1,
		})
	}

	return d, nil
}

// Well resolves a well on a loaded source or destination plate.
func (d *Deck) Well(role domain.Role, plate int, name string) (domain.Well, error) {
	var max int
	switch role {
	case domain.RoleSource:
		max = d.cfg.SourcePlates
	case domain.RoleDestination:
		max = d.cfg.DestinationPlates
	default:
		return domain.Well{}, notFound(fmt.Errorf("no wells on %s labware", role))
	}

	if plate < 1 || plate > max {
		return domain.Well{}, notFound(fmt.Errorf("%s plate %d is not loaded (1-%d): %w", role, plate, max, domain.ErrNotFound))
	}

	canonical, ok := domain.CanonicalWell(name)
	if !ok {
		return domain.Well{}, notFound(fmt.Errorf("%s plate %d has no well %q: %w", role, plate, name, domain.ErrNotFound))
	}

	return domain.Well{Role: role, Plate: plate, Name: canonical}, nil
}

// MarkLiquid records the starting sample in a source well once. Later calls
// for the same well are ignored and return false.
func (d *Deck) MarkLiquid(plate int, well string, volume decimal.Decimal) bool {
	canonical, ok := domain.CanonicalWell(well)
	if !ok {
		canonical = well
	}
	key := liquidKey{plate: plate, well: canonical}
	if _, seen := d.marked[key]; seen {
		return false
	}
	d.marked[key] = struct{}{}

	d.loads = append(d.loads, domain.LiquidLoad{
		Liquid: liquidName(plate),
		Plate:  plate,
		Well:   canonical,
		Volume: volume,
	})
	return true
}

// Layout returns a copy of the current deck state.
func (d *Deck) Layout() domain.DeckLayout {
	out := domain.DeckLayout{
		Labware: make([]domain.Labware, len(d.labware)),
		Liquids: make([]domain.Liquid, len(d.liquids)),
		Loads:   make([]domain.LiquidLoad, len(d.loads)),
	}
	copy(out.Labware, d.labware)
	copy(out.Liquids, d.liquids)
	copy(out.Loads, d.loads)
	return out
}

func liquidName(plate int) string {
	return fmt.Sprintf("Sample (plate %d)", plate)
}

func checkCount(what string, n, max int) error {
	if n < 1 || n > max {
		return &domain.OpError{
			Op:   "deck.new",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%s must be 1-%d, got %d: %w", what, max, n, domain.ErrInvalidConfig),
		}
	}
	return nil
}

func notFound(err error) error {
	return &domain.OpError{
		Op:   "deck.well",
		Kind: domain.KindNotFound,
		Err:  err,
	}
}
