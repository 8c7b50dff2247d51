package config

// FileName is the workspace marker and configuration file.
const FileName = "xferbot.yaml"

type yamlConfig struct {
	Xferbot yamlRoot `yaml:"xferbot"`
}

type yamlRoot struct {
	Deck struct {
		SourcePlates      *int   `yaml:"source_plates"`
		DestinationPlates *int   `yaml:"destination_plates"`
		TipRacks          *int   `yaml:"tip_racks"`
		PlateLabware      string `yaml:"plate_labware"`
		TipRackLabware    string `yaml:"tiprack_labware"`
	} `yaml:"deck"`

	Pipette struct {
		Name      string `yaml:"name"`
		Mount     string `yaml:"mount"`
		MaxVolume string `yaml:"max_volume"`
	} `yaml:"pipette"`

	Defaults struct {
		Manifest string `yaml:"manifest"`
	} `yaml:"defaults"`

	Paths struct {
		ManifestsDir string `yaml:"manifests_dir"`
		RunsDir      string `yaml:"runs_dir"`
	} `yaml:"paths"`
}
