package runstore

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

func sampleRun(start time.Time) domain.RunArtifact {
	return domain.RunArtifact{
		ID:           "3f1c9a52-6d8e-4a51-9d53-0b0f2c1e7a10",
		ManifestName: "Plate Dilutions",
		ManifestPath: "manifests/plate-dilutions.csv",
		Pipette:      "p20_single_gen2",
		Status:       domain.RunCompleted,
		StartedAt:    start,
		EndedAt:      start.Add(2 * time.Second),
		Results: []domain.TransferResult{
			{
				Row:         2,
				Source:      domain.Well{Role: domain.RoleSource, Plate: 1, Name: "A1"},
				Destination: domain.Well{Role: domain.RoleDestination, Plate: 1, Name: "A1"},
				Volume:      decimal.NewFromInt(25),
				MixVolume:   decimal.NewFromInt(20),
				Chunks:      []decimal.Decimal{decimal.NewFromInt(19), decimal.NewFromInt(6)},
				TipsUsed:    1,
			},
		},
	}
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()

	cfg := domain.DefaultConfig()
	cfg.Paths.RunsDir = "runs"

	store := NewJSONStore(tmp, cfg)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(sampleRun(start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	wantFile := filepath.Join(tmp, "runs", "20260203T101112Z_plate-dilutions.json")
	if _, err := os.Stat(wantFile); err != nil {
		t.Fatalf("expected file at %s, stat err=%v (id=%s)", wantFile, err, id)
	}

	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded domain.RunArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ManifestName != "Plate Dilutions" {
		t.Fatalf("expected manifest name, got=%q", decoded.ManifestName)
	}
	if len(decoded.Results) != 1 {
		t.Fatalf("expected 1 result, got=%d", len(decoded.Results))
	}
	if len(decoded.Results[0].Chunks) != 2 || !decoded.Results[0].Chunks[1].Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected chunks to round-trip, got=%v", decoded.Results[0].Chunks)
	}
}

func TestSaveRun_UsesManifestPathWhenNameMissing(t *testing.T) {
	tmp := t.TempDir()

	store := NewJSONStore(tmp, domain.DefaultConfig())

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	run := sampleRun(start)
	run.ManifestName = ""

	id, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260203T101112Z_plate-dilutions" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestSaveRun_UsesNowWhenStartMissing(t *testing.T) {
	tmp := t.TempDir()

	fixed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithNow(func() time.Time { return fixed }))

	id, err := store.SaveRun(sampleRun(time.Time{}))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if !strings.HasPrefix(id, "20260506T070809Z_") {
		t.Fatalf("expected timestamp from WithNow, got %q", id)
	}
}

func TestSaveRun_UsesUniqueFilenameOnCollision(t *testing.T) {
	tmp := t.TempDir()

	store := NewJSONStore(tmp, domain.DefaultConfig())

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	run := sampleRun(start)

	id1, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	id2, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected unique ids, got %q", id1)
	}
	if id2 != id1+"_2" {
		t.Fatalf("expected second id %q, got %q", id1+"_2", id2)
	}

	for _, id := range []string{id1, id2} {
		p := filepath.Join(tmp, "runs", id+".json")
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected file at %s, stat err=%v", p, err)
		}
	}
}

func TestSaveRun_WritesIndex(t *testing.T) {
	tmp := t.TempDir()

	store := NewJSONStore(tmp, domain.DefaultConfig(), WithIndex(true))

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	if _, err := store.SaveRun(sampleRun(start)); err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	failed := sampleRun(start.Add(time.Minute))
	failed.Status = domain.RunFailed
	if _, err := store.SaveRun(failed); err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}

	f, err := os.Open(filepath.Join(tmp, "runs", "index.jsonl"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("decode index line: %v", err)
		}
		lines = append(lines, m)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 index lines, got %d", len(lines))
	}
	if lines[1]["status"] != string(domain.RunFailed) {
		t.Fatalf("expected failed status in index, got %v", lines[1]["status"])
	}
	if lines[0]["run_id"] != "3f1c9a52-6d8e-4a51-9d53-0b0f2c1e7a10" {
		t.Fatalf("expected run_id in index, got %v", lines[0]["run_id"])
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Plate Dilutions":  "plate-dilutions",
		"  --weird__Name ": "weird-name",
		"pool v2.1":        "pool-v2-1",
		"":                 "",
		"***":              "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveRun_LongManifestName(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	run := sampleRun(time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))
	run.ManifestName = strings.Repeat("a", 245)

	done := make(chan struct{})
	var (
		id  string
		err error
	)
	go func() {
		defer close(done)
		id, err = store.SaveRun(run)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("SaveRun did not return for a 245-char manifest name")
	}
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if want := "20260203T101112Z_" + strings.Repeat("a", maxSlugLen); id != want {
		t.Fatalf("expected id %q, got %q", want, id)
	}
	if _, err := os.Stat(filepath.Join(tmp, "runs", id+".json")); err != nil {
		t.Fatalf("expected run file, stat err=%v", err)
	}
}

func TestUniqueID_ReturnsStatError(t *testing.T) {
	tmp := t.TempDir()
	notDir := filepath.Join(tmp, "file")
	if err := os.WriteFile(notDir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := uniqueID(notDir, "run"); err == nil {
		t.Fatalf("expected stat error when dir is a regular file")
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := slugify(strings.Repeat("ab ", 40))
	if len(got) > maxSlugLen {
		t.Fatalf("expected at most %d bytes, got %d", maxSlugLen, len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("expected no trailing dash, got %q", got)
	}
}
