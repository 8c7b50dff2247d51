package csvmanifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// Column order of a manifest row. Columns past colVolume are ignored.
const (
	colSourcePlate = iota
	colSourceWell
	colDestPlate
	colDestWell
	colVolume

	minColumns
)

type Loader struct {
	manifestsDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{manifestsDir: "manifests"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithManifestsDir(dir string) Option {
	return func(l *Loader) { l.manifestsDir = dir }
}

var _ ports.ManifestLoader = (*Loader)(nil)

func (l *Loader) LoadManifest(path string) (domain.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Manifest{}, &domain.OpError{
			Op:   "csvmanifest.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	reqs, err := Parse(f)
	if err != nil {
		return domain.Manifest{}, &domain.OpError{
			Op:   "csvmanifest.load",
			Kind: domain.KindInvalidManifest,
			Path: path,
			Err:  err,
		}
	}

	return domain.Manifest{
		Name:     manifestName(path),
		Path:     path,
		Requests: reqs,
	}, nil
}

func (l *Loader) ListManifests(root string) ([]domain.ManifestRef, error) {
	dir := filepath.Join(root, l.manifestsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "csvmanifest.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ManifestRef
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		refs = append(refs, domain.ManifestRef{Name: manifestName(p), Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Parse reads a manifest CSV. The first record is the header and is skipped.
// Blank lines are ignored; the first malformed row aborts parsing.
func Parse(r io.Reader) ([]domain.TransferRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty (missing header row)")
		}
		return nil, fmt.Errorf("header: %w", err)
	}

	var out []domain.TransferRequest
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		req, err := parseRow(line, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func parseRow(line int, rec []string) (domain.TransferRequest, error) {
	if len(rec) < minColumns {
		return domain.TransferRequest{}, fmt.Errorf("expected %d columns, got %d", minColumns, len(rec))
	}

	srcPlate, err := parsePlate(rec[colSourcePlate])
	if err != nil {
		return domain.TransferRequest{}, fmt.Errorf("source plate: %w", err)
	}
	dstPlate, err := parsePlate(rec[colDestPlate])
	if err != nil {
		return domain.TransferRequest{}, fmt.Errorf("destination plate: %w", err)
	}

	vol, err := decimal.NewFromString(strings.TrimSpace(rec[colVolume]))
	if err != nil {
		return domain.TransferRequest{}, fmt.Errorf("volume %q: not a number", rec[colVolume])
	}

	return domain.TransferRequest{
		Row:         line,
		SourcePlate: srcPlate,
		SourceWell:  normalizeWell(rec[colSourceWell]),
		DestPlate:   dstPlate,
		DestWell:    normalizeWell(rec[colDestWell]),
		Volume:      vol,
	}, nil
}

// maxPlateNumber bounds parsed plate numbers so the int conversion is exact;
// the deck range itself is checked during validation.
const maxPlateNumber = 1 << 20

// parsePlate accepts "2" as well as spreadsheet exports like "2.0".
func parsePlate(s string) (int, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > maxPlateNumber {
		return 0, fmt.Errorf("%q is not a plate number", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole plate number", s)
	}
	return int(f), nil
}

func normalizeWell(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func manifestName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
