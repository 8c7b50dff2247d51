package domain

import "github.com/shopspring/decimal"

// Config represents the xferbot configuration loaded from xferbot.yaml.
type Config struct {
	Deck     DeckConfig
	Pipette  PipetteConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
}

type DeckConfig struct {
	SourcePlates      int
	DestinationPlates int
	TipRacks          int
	PlateLabware      string
	TipRackLabware    string
}

type PipetteConfig struct {
	Name      string
	Mount     string
	MaxVolume decimal.Decimal
}

type DefaultsConfig struct {
	Manifest string
}

type PathsConfig struct {
	ManifestsDir string
	RunsDir      string
}

// Deck capacity limits: slots 4-8 hold source plates, slots 1-3 destination
// plates and slots 10-11 tip racks.
const (
	MaxSourcePlates      = 5
	MaxDestinationPlates = 3
	MaxTipRacks          = 2
	TipsPerRack          = 96
)

// DefaultConfig provides sane defaults if xferbot.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Deck: DeckConfig{
			SourcePlates:      3,
			DestinationPlates: 2,
			TipRacks:          2,
			PlateLabware:      "opentrons_96_wellplate_200ul_pcr_full_skirt",
			TipRackLabware:    "opentrons_96_filtertiprack_20ul",
		},
		Pipette: PipetteConfig{
			Name:      "p20_single_gen2",
			Mount:     "right",
			MaxVolume: decimal.NewFromInt(20),
		},
		Paths: PathsConfig{
			ManifestsDir: "manifests",
			RunsDir:      "runs",
		},
	}
}
