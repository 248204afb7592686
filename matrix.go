package collinear

import (
	"fmt"
	"math"
	"sort"
)

// Dataset is raw tabular input: one map per observation row, keyed by
// variable name. A value is missing from a row when its key is absent or the
// value is NaN (non-finite values are treated as missing too). The dataset is
// not owned by this package; it is read once during Prepare.
type Dataset []map[string]float64

// PrepareOptions controls which columns Prepare keeps.
type PrepareOptions struct {
	// Omit names columns to drop unconditionally.
	Omit []string

	// Select, when non-empty, names exactly the columns to keep (minus any
	// also named in Omit), in the given order. When empty, every column seen
	// in the dataset is kept (minus Omit) in name-sorted order.
	Select []string
}

// Matrix is a clean numeric matrix: rows are complete observations, columns
// are named variables. Data is stored flat column-major so that selectors can
// take whole-column views without copying. Immutable once built.
type Matrix struct {
	names []string
	index map[string]int
	data  []float64 // flat column-major, len = rows*cols
	rows  int
}

// Prepare resolves the column set from opts, drops every row containing a
// missing value in any resolved column (row-wise complete-case filtering),
// and validates the result. It returns an *InsufficientDataError when fewer
// than 2 columns or fewer than 2 complete rows remain.
func Prepare(ds Dataset, opts PrepareOptions) (*Matrix, error) {
	seen := make(map[string]bool)
	for _, row := range ds {
		for name := range row {
			seen[name] = true
		}
	}

	omit := make(map[string]bool, len(opts.Omit))
	for _, name := range opts.Omit {
		omit[name] = true
	}

	var names []string
	if len(opts.Select) > 0 {
		picked := make(map[string]bool, len(opts.Select))
		for _, name := range opts.Select {
			if !seen[name] {
				return nil, fmt.Errorf("collinear: selected column %q does not exist in the dataset", name)
			}
			if picked[name] {
				return nil, fmt.Errorf("collinear: column %q selected more than once", name)
			}
			picked[name] = true
			if !omit[name] {
				names = append(names, name)
			}
		}
	} else {
		for name := range seen {
			if !omit[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)
	}

	if len(names) < 2 {
		return nil, &InsufficientDataError{Rows: len(ds), Cols: len(names)}
	}

	// Complete-case pass: keep only rows where every resolved column is a
	// finite number.
	var complete [][]float64
	for _, row := range ds {
		vals := make([]float64, len(names))
		ok := true
		for j, name := range names {
			v, present := row[name]
			if !present || math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
			vals[j] = v
		}
		if ok {
			complete = append(complete, vals)
		}
	}

	if len(complete) < 2 {
		return nil, &InsufficientDataError{Rows: len(complete), Cols: len(names)}
	}

	m := newEmptyMatrix(names, len(complete))
	for i, vals := range complete {
		for j, v := range vals {
			m.data[j*m.rows+i] = v
		}
	}
	return m, nil
}

// NewMatrix builds a Matrix from column names and already-clean row data.
// Unlike Prepare it does not drop anything: a missing or non-finite value is
// an error, as is a ragged row or a duplicate name. The 2x2 minimum from
// Prepare still applies.
func NewMatrix(names []string, rows [][]float64) (*Matrix, error) {
	if len(names) < 2 || len(rows) < 2 {
		return nil, &InsufficientDataError{Rows: len(rows), Cols: len(names)}
	}
	dup := make(map[string]bool, len(names))
	for _, name := range names {
		if dup[name] {
			return nil, fmt.Errorf("collinear: duplicate column name %q", name)
		}
		dup[name] = true
	}

	m := newEmptyMatrix(names, len(rows))
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("collinear: row %d has %d values, want %d", i, len(row), len(names))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("collinear: non-finite value %v at row %d, column %q", v, i, names[j])
			}
			m.data[j*m.rows+i] = v
		}
	}
	return m, nil
}

func newEmptyMatrix(names []string, rows int) *Matrix {
	index := make(map[string]int, len(names))
	for j, name := range names {
		index[name] = j
	}
	return &Matrix{
		names: append([]string(nil), names...),
		index: index,
		data:  make([]float64, rows*len(names)),
		rows:  rows,
	}
}

// Names returns the column names in matrix order. The slice is a copy.
func (m *Matrix) Names() []string {
	return append([]string(nil), m.names...)
}

// Rows returns the number of complete observation rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.names) }

// At returns the value at observation i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[j*m.rows+i] }

// column returns a read-only view of column j.
func (m *Matrix) column(j int) []float64 {
	return m.data[j*m.rows : (j+1)*m.rows]
}

// Column returns a copy of the named column, or nil if the column does not
// exist.
func (m *Matrix) Column(name string) []float64 {
	j, ok := m.index[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), m.column(j)...)
}

// Subset returns a new Matrix restricted to the named columns, in the given
// order. All rows are kept (they are already complete). Returns an
// *InsufficientDataError when fewer than 2 columns are requested.
func (m *Matrix) Subset(names []string) (*Matrix, error) {
	if len(names) < 2 {
		return nil, &InsufficientDataError{Rows: m.rows, Cols: len(names)}
	}
	sub := newEmptyMatrix(names, m.rows)
	for j, name := range names {
		src, ok := m.index[name]
		if !ok {
			return nil, fmt.Errorf("collinear: column %q does not exist in the matrix", name)
		}
		copy(sub.data[j*m.rows:(j+1)*m.rows], m.column(src))
	}
	return sub, nil
}

// checkVariance returns a *DegenerateVarianceError for the first column whose
// values are all identical. Both selectors require non-degenerate columns.
func (m *Matrix) checkVariance() error {
	for j, name := range m.names {
		col := m.column(j)
		first := col[0]
		constant := true
		for _, v := range col[1:] {
			if v != first {
				constant = false
				break
			}
		}
		if constant {
			return &DegenerateVarianceError{Variable: name}
		}
	}
	return nil
}
