package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Role tells whether a plate is read from or written to.
type Role string

const (
	RoleSource      Role = "source"
	RoleDestination Role = "destination"
	RoleTipRack     Role = "tiprack"
)

// Reference is the vertical plane a Position is measured from.
type Reference string

const (
	RefBottom Reference = "bottom"
	RefTop    Reference = "top"
)

// Well addresses a single well on a plate loaded on the deck.
type Well struct {
	Role  Role
	Plate int
	Name  string
}

// Bottom returns a position z mm above the well bottom.
func (w Well) Bottom(z float64) Position {
	return Position{Well: w, Ref: RefBottom, Z: z}
}

// Top returns a position z mm relative to the well top (negative is inside the well).
func (w Well) Top(z float64) Position {
	return Position{Well: w, Ref: RefTop, Z: z}
}

func (w Well) String() string {
	return fmt.Sprintf("%s %d %s", w.Role, w.Plate, w.Name)
}

// Position is an offset from a well's bottom or top plane.
type Position struct {
	Well Well
	Ref  Reference
	Z    float64
}

func (p Position) String() string {
	return fmt.Sprintf("%s %s%+g", p.Well, p.Ref, p.Z)
}

// Labware is a piece of labware placed in a deck slot.
type Labware struct {
	Slot     int
	LoadName string
	Label    string
	Role     Role
	Plate    int
}

// Liquid is a visualization-only liquid definition.
type Liquid struct {
	Name        string
	Description string
	Color       string
}

// LiquidLoad marks a well as holding a liquid at the start of the run.
type LiquidLoad struct {
	Liquid string
	Plate  int
	Well   string
	Volume decimal.Decimal
}

// DeckLayout is what the deck looks like before the first transfer.
type DeckLayout struct {
	Labware []Labware
	Liquids []Liquid
	Loads   []LiquidLoad
}

// 96-well plate geometry.
const (
	PlateRows    = "ABCDEFGH"
	PlateColumns = 12
)

// CanonicalWell validates a 96-well name and returns it in "B7" form.
func CanonicalWell(name string) (string, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if len(n) < 2 {
		return "", false
	}
	if !strings.ContainsRune(PlateRows, rune(n[0])) {
		return "", false
	}
	col, err := strconv.Atoi(n[1:])
	if err != nil || col < 1 || col > PlateColumns {
		return "", false
	}
	return fmt.Sprintf("%c%d", n[0], col), true
}
