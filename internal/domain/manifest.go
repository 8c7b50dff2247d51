package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferRequest is one manifest row: move Volume µL from a source well to a
// destination well. Row is the 1-based CSV line (the header is row 1).
type TransferRequest struct {
	Row int

	SourcePlate int
	SourceWell  string
	DestPlate   int
	DestWell    string

	Volume decimal.Decimal
}

func (r TransferRequest) String() string {
	return fmt.Sprintf("%s µL from plate %d %s to plate %d %s",
		r.Volume.String(), r.SourcePlate, r.SourceWell, r.DestPlate, r.DestWell)
}

// Manifest is an ordered list of transfer requests. Order is execution order.
type Manifest struct {
	Name     string
	Path     string
	Requests []TransferRequest
}

// ManifestRef is a lightweight reference to a manifest file on disk.
type ManifestRef struct {
	Name string
	Path string
}

// ManifestSummary is the pre-flight report printed before a run.
type ManifestSummary struct {
	Transfers         int
	SplitTransfers    int
	SourcePlates      []int
	DestinationPlates []int
	TotalVolume       decimal.Decimal
	TipsNeeded        int
	TipRacksNeeded    int
}
