package collinear

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// singularTol is the 1-R² floor below which a regression is treated as
// numerically singular: the variable is a near-exact linear combination of
// the other candidates and its VIF is unbounded.
const singularTol = 1e-12

// VIF computes the variance inflation factor of one variable within a
// candidate set: 1/(1-R²) where R² comes from regressing the variable on the
// other members (with intercept). It returns a *SingularCandidateError when
// the regression is singular or near-singular. The set must contain the
// variable and at least one other member.
func VIF(m *Matrix, set []string, variable string) (float64, error) {
	idx, t, err := resolveSet(m, set, variable)
	if err != nil {
		return 0, err
	}
	v, r2, singular := vifOne(m, idx, t)
	if singular {
		return math.Inf(1), &SingularCandidateError{Variable: variable, RSquared: r2}
	}
	return v, nil
}

// VIFTable computes the VIF of every member of set within set, recomputed
// from scratch (each member's VIF depends on all others, so the whole table
// is invalidated whenever the set changes). Singular members get +Inf.
// A set with fewer than 2 members has no defined VIFs and yields an empty
// table. workers controls parallelism over the independent per-variable
// regressions; <= 1 means sequential, and the result is identical.
func VIFTable(m *Matrix, set []string, workers int) map[string]float64 {
	if len(set) < 2 {
		return map[string]float64{}
	}
	idx := make([]int, len(set))
	for i, name := range set {
		idx[i] = m.index[name]
	}

	vifs := make([]float64, len(set))
	fill := func(start, end int) {
		for t := start; t < end; t++ {
			v, _, singular := vifOne(m, idx, t)
			if singular {
				v = math.Inf(1)
			}
			vifs[t] = v
		}
	}

	if workers <= 1 || len(set) <= 2 {
		fill(0, len(set))
	} else {
		// Contiguous target ranges per worker; no overlapping writes.
		var wg sync.WaitGroup
		perWorker := (len(set) + workers - 1) / workers
		for w := 0; w < workers; w++ {
			start := w * perWorker
			end := min(start+perWorker, len(set))
			if start >= len(set) {
				break
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				fill(start, end)
			}(start, end)
		}
		wg.Wait()
	}

	table := make(map[string]float64, len(set))
	for i, name := range set {
		table[name] = vifs[i]
	}
	return table
}

// vifOne regresses column idx[t] on the remaining idx columns plus an
// intercept and converts R² to a VIF. The singular return covers both an
// unsolvable (rank-deficient or ill-conditioned) design and an R² within
// singularTol of 1.
func vifOne(m *Matrix, idx []int, t int) (vif, r2 float64, singular bool) {
	rows := m.rows
	k := len(idx) // intercept + len(idx)-1 predictors

	xdata := make([]float64, rows*k)
	for i := 0; i < rows; i++ {
		xdata[i*k] = 1
		c := 1
		for j, col := range idx {
			if j == t {
				continue
			}
			xdata[i*k+c] = m.data[col*rows+i]
			c++
		}
	}
	y := m.column(idx[t])
	ydata := make([]float64, rows)
	copy(ydata, y)

	a := mat.NewDense(rows, k, xdata)
	b := mat.NewDense(rows, 1, ydata)
	var beta mat.Dense
	if err := beta.Solve(a, b); err != nil {
		// Rank-deficient or ill-conditioned design: the target is entangled
		// in an exact linear dependency among the candidates.
		return math.Inf(1), 1, true
	}

	var fitted mat.Dense
	fitted.Mul(a, &beta)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(rows)

	var ssRes, ssTot float64
	for i := 0; i < rows; i++ {
		res := y[i] - fitted.At(i, 0)
		dev := y[i] - mean
		ssRes += res * res
		ssTot += dev * dev
	}

	r2 = 1 - ssRes/ssTot
	if r2 > 1 {
		r2 = 1
	}
	if 1-r2 < singularTol {
		return math.Inf(1), r2, true
	}
	return 1 / (1 - r2), r2, false
}

func resolveSet(m *Matrix, set []string, variable string) (idx []int, t int, err error) {
	if len(set) < 2 {
		return nil, 0, fmt.Errorf("collinear: VIF needs a set of at least 2 variables, got %d", len(set))
	}
	idx = make([]int, len(set))
	t = -1
	for i, name := range set {
		j, ok := m.index[name]
		if !ok {
			return nil, 0, fmt.Errorf("collinear: column %q does not exist in the matrix", name)
		}
		idx[i] = j
		if name == variable {
			t = i
		}
	}
	if t == -1 {
		return nil, 0, fmt.Errorf("collinear: variable %q is not in the candidate set", variable)
	}
	return idx, t, nil
}
