package collinear

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// orthoFixture holds 5 exactly uncorrelated columns (Hadamard design): every
// pairwise correlation is 0 and every VIF is exactly 1.
func orthoFixture(t *testing.T) *Matrix {
	t.Helper()
	return mustMatrix(t, []string{"a", "b", "c", "d", "e"}, [][]float64{
		{1, -1, 1, -1, 1, -1, 1, -1},
		{1, 1, -1, -1, 1, 1, -1, -1},
		{1, -1, -1, 1, 1, -1, -1, 1},
		{1, 1, 1, 1, -1, -1, -1, -1},
		{1, -1, 1, -1, -1, 1, -1, 1},
	})
}

// entangledFixture has a ≈ b ≈ c only through the near-exact relation
// c = a + b + noise; a and b themselves are nearly uncorrelated.
func entangledFixture(t *testing.T) *Matrix {
	t.Helper()
	a := []float64{-0.29, 0.36, 2.55, -0.21, 0.05, 0.52, -1.89, 0.07, 0.78, 1.76, -2.44, -1.18, -2.46, 1.86, 1.16, -2.75}
	b := []float64{2.89, 2.79, 0.92, 0.69, -2.06, -2.91, 0.17, -2.64, -1.86, -1.55, -2.82, -0.22, -0.36, 2.05, 0.11, 0.84}
	c := []float64{2.6, 3.189, 3.46, 0.427, -1.891, -2.271, -1.638, -2.52, -1.124, 0.145, -5.311, -1.503, -2.756, 3.886, 1.353, -1.937}
	return mustMatrix(t, []string{"a", "b", "c"}, [][]float64{a, b, c})
}

func TestVIFTable_UncorrelatedIsUnity(t *testing.T) {
	m := orthoFixture(t)
	table := VIFTable(m, m.Names(), 1)
	if len(table) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(table))
	}
	for name, vif := range table {
		assertFloat(t, "VIF("+name+")", vif, 1.0, 1e-9)
	}
}

func TestVIF_TwoVariableIdentity(t *testing.T) {
	// For two variables VIF = 1/(1-r²).
	m := entangledFixture(t)
	r := stat.Correlation(m.Column("a"), m.Column("b"), nil)

	vif, err := VIF(m, []string{"a", "b"}, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFloat(t, "VIF(a | {a,b})", vif, 1/(1-r*r), 1e-9)
}

func TestVIFTable_NearCollinearTriple(t *testing.T) {
	m := entangledFixture(t)
	table := VIFTable(m, []string{"a", "b", "c"}, 1)
	// All three explode once c ≈ a + b joins the set.
	for name, vif := range table {
		if vif < 100 {
			t.Errorf("VIF(%s) = %v, expected > 100 in the entangled triple", name, vif)
		}
	}

	// Each pair on its own is fine.
	pair := VIFTable(m, []string{"a", "b"}, 1)
	if pair["a"] > 2 || pair["b"] > 2 {
		t.Errorf("pair VIFs = %v, expected near 1", pair)
	}
}

func TestVIF_SingularCandidate(t *testing.T) {
	// d2 is an exact multiple of d1.
	d1 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	d2 := make([]float64, len(d1))
	for i, v := range d1 {
		d2[i] = 3 * v
	}
	d3 := []float64{2, -1, 4, 0, -3, 5, 1, -2}
	m := mustMatrix(t, []string{"d1", "d2", "d3"}, [][]float64{d1, d2, d3})

	vif, err := VIF(m, []string{"d1", "d2", "d3"}, "d1")
	var singular *SingularCandidateError
	if !errors.As(err, &singular) {
		t.Fatalf("expected SingularCandidateError, got %v", err)
	}
	if singular.Variable != "d1" {
		t.Errorf("Variable = %q, want \"d1\"", singular.Variable)
	}
	if !math.IsInf(vif, 1) {
		t.Errorf("VIF = %v, want +Inf", vif)
	}

	// The batch table maps the same condition to +Inf without an error.
	// The exact d1/d2 dependency makes every regression design in the set
	// rank-deficient, so all three report +Inf; the selectors recover by
	// removing one variable at a time and recomputing.
	table := VIFTable(m, []string{"d1", "d2", "d3"}, 1)
	for name, vif := range table {
		if !math.IsInf(vif, 1) {
			t.Errorf("VIF(%s) = %v, want +Inf while the exact dependency is present", name, vif)
		}
	}

	// Once the dependency is broken the remaining pair is clean.
	pair := VIFTable(m, []string{"d2", "d3"}, 1)
	if math.IsInf(pair["d2"], 1) || math.IsInf(pair["d3"], 1) {
		t.Errorf("pair table = %v, want finite VIFs", pair)
	}
}

func TestVIFTable_SmallSets(t *testing.T) {
	m := entangledFixture(t)
	if table := VIFTable(m, []string{"a"}, 1); len(table) != 0 {
		t.Errorf("1-variable table = %v, want empty (VIF undefined)", table)
	}
	if table := VIFTable(m, nil, 1); len(table) != 0 {
		t.Errorf("empty-set table = %v, want empty", table)
	}
}

func TestVIFTable_ParallelMatchesSequential(t *testing.T) {
	m := sixVarFixture(t)
	seq := VIFTable(m, m.Names(), 1)
	par := VIFTable(m, m.Names(), 4)
	for name, v := range seq {
		if par[name] != v {
			t.Errorf("VIF(%s): sequential %v != parallel %v", name, v, par[name])
		}
	}
}

func TestVIF_BadArguments(t *testing.T) {
	m := entangledFixture(t)
	if _, err := VIF(m, []string{"a"}, "a"); err == nil {
		t.Error("expected error for a 1-variable set")
	}
	if _, err := VIF(m, []string{"a", "b"}, "c"); err == nil {
		t.Error("expected error for a variable outside the set")
	}
	if _, err := VIF(m, []string{"a", "nope"}, "a"); err == nil {
		t.Error("expected error for an unknown column")
	}
}
