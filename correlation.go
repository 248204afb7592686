package collinear

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// CorrMatrix is the symmetric pairwise Pearson correlation matrix over a
// Matrix's columns. Values lie in [-1, 1] with a unit diagonal. It is derived
// data: rebuilt whenever the active variable set changes, never mutated.
type CorrMatrix struct {
	names []string
	index map[string]int
	vals  []float64 // flat row-major, n×n
}

// Correlate computes the correlation matrix for m. workers controls the
// number of goroutines used for the pairwise pass; <= 1 means sequential, and
// the result is identical either way. It returns a *DegenerateVarianceError
// when any column has zero variance.
func Correlate(m *Matrix, workers int) (*CorrMatrix, error) {
	if err := m.checkVariance(); err != nil {
		return nil, err
	}

	n := m.Cols()
	c := &CorrMatrix{
		names: m.Names(),
		index: make(map[string]int, n),
		vals:  make([]float64, n*n),
	}
	for j, name := range c.names {
		c.index[name] = j
		c.vals[j*n+j] = 1
	}

	fillRows := func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				r := stat.Correlation(m.column(i), m.column(j), nil)
				c.vals[i*n+j] = r
				c.vals[j*n+i] = r
			}
		}
	}

	if workers <= 1 || n <= 2 {
		fillRows(0, n)
		return c, nil
	}

	// Split source rows across workers. Ranges don't overlap, so the writes
	// need no synchronization.
	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= n {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fillRows(start, end)
		}(start, end)
	}
	wg.Wait()
	return c, nil
}

// Names returns the variable names in matrix order. The slice is a copy.
func (c *CorrMatrix) Names() []string {
	return append([]string(nil), c.names...)
}

// At returns the correlation between columns i and j.
func (c *CorrMatrix) At(i, j int) float64 {
	return c.vals[i*len(c.names)+j]
}

// AtNames returns the correlation between two named variables. The second
// return is false when either name is unknown.
func (c *CorrMatrix) AtNames(a, b string) (float64, bool) {
	i, okA := c.index[a]
	j, okB := c.index[b]
	if !okA || !okB {
		return 0, false
	}
	return c.At(i, j), true
}

// MaxAbsCorr returns the maximum absolute off-diagonal correlation among the
// named subset, along with the pair attaining it. Names not present in the
// matrix are skipped. A subset with fewer than two known names has no pairs
// and yields 0.
func (c *CorrMatrix) MaxAbsCorr(subset []string) (float64, [2]string) {
	idx := make([]int, 0, len(subset))
	for _, name := range subset {
		if j, ok := c.index[name]; ok {
			idx = append(idx, j)
		}
	}

	maxAbs := 0.0
	var pair [2]string
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			if r := math.Abs(c.At(idx[a], idx[b])); r > maxAbs {
				maxAbs = r
				pair = [2]string{c.names[idx[a]], c.names[idx[b]]}
			}
		}
	}
	return maxAbs, pair
}

// Distances returns the derived distance matrix 1-|r| as a flat row-major
// n×n slice, suitable for BuildTree. Values lie in [0, 1].
func (c *CorrMatrix) Distances() []float64 {
	n := len(c.names)
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			// Clamp: |r| can exceed 1 by a rounding ulp.
			d := 1 - math.Abs(c.vals[i*n+j])
			if d < 0 {
				d = 0
			}
			dist[i*n+j] = d
		}
	}
	return dist
}
