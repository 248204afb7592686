package collinear

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"
)

func TestDendrogram_DescribesFullTree(t *testing.T) {
	m := fourVarFixture(t)
	cfg := DefaultConfig()
	cfg.Ranking = scenarioRanking()

	result, err := ClusterSelect(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := result.Dendrogram
	if d == nil {
		t.Fatal("expected a dendrogram description")
	}
	if len(d.Labels) != m.Cols() {
		t.Fatalf("labels = %v, want all %d variables", d.Labels, m.Cols())
	}
	if len(d.Merges) != m.Cols()-1 {
		t.Fatalf("merge rows = %d, want %d", len(d.Merges), m.Cols()-1)
	}
	assertFloat(t, "threshold marker", d.Threshold, 1-cfg.MaxCor, 1e-12)
	assertFloat(t, "cut height", d.CutHeight, result.CutHeight, 0)
	for _, name := range result.Selected {
		if !d.Selected[name] {
			t.Errorf("%s selected in the result but not flagged in the dendrogram", name)
		}
	}
}

func TestDendrogram_RenderPNG(t *testing.T) {
	m := fourVarFixture(t)
	cfg := DefaultConfig()
	cfg.Ranking = scenarioRanking()

	result, err := ClusterSelect(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "dendrogram.png")
	if err := result.Dendrogram.RenderPNG(path, 20*vg.Centimeter, 12*vg.Centimeter); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat rendered file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("rendered PNG is empty")
	}
}

func TestDendrogram_RenderPNGRejectsMalformed(t *testing.T) {
	d := &Dendrogram{
		Labels: []string{"a", "b", "c"},
		Merges: [][4]float64{{0, 1, 0.5, 2}}, // needs n-1 = 2 rows
	}
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := d.RenderPNG(path, 10*vg.Centimeter, 10*vg.Centimeter); err == nil {
		t.Error("expected error for a truncated merge table")
	}

	single := &Dendrogram{Labels: []string{"only"}}
	if err := single.RenderPNG(path, 10*vg.Centimeter, 10*vg.Centimeter); err == nil {
		t.Error("expected error for fewer than two leaves")
	}
}
