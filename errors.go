package collinear

import "fmt"

// InsufficientDataError reports that the cleaned matrix is too small to
// analyze: fewer than 2 numeric columns or fewer than 2 complete rows.
type InsufficientDataError struct {
	Rows int
	Cols int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("collinear: insufficient data after cleaning: %d complete rows x %d numeric columns (need at least 2x2)",
		e.Rows, e.Cols)
}

// DegenerateVarianceError reports a zero-variance column, for which Pearson
// correlation is undefined.
type DegenerateVarianceError struct {
	Variable string
}

func (e *DegenerateVarianceError) Error() string {
	return fmt.Sprintf("collinear: column %q has zero variance, correlation is undefined", e.Variable)
}

// SingularCandidateError reports a variable that is a near-exact linear
// combination of the other candidates, making its VIF numerically unbounded.
// The selectors never surface this error: they treat the variable as failing
// the VIF threshold and remove or reject it immediately. It exists for
// callers computing a single VIF directly.
type SingularCandidateError struct {
	Variable string
	RSquared float64
}

func (e *SingularCandidateError) Error() string {
	return fmt.Sprintf("collinear: variable %q is (near-)collinear with the other candidates (R^2 = %g), VIF is unbounded",
		e.Variable, e.RSquared)
}

// ThresholdUnreachableError reports that the cluster height search exhausted
// its step budget without finding a cutoff whose group representatives
// satisfy the correlation threshold. The caller must relax MaxCor or change
// the ranking/candidate set.
type ThresholdUnreachableError struct {
	MaxCor  float64   // requested threshold
	BestCor float64   // smallest max |r| observed across all cutoffs tried
	Pair    [2]string // variable pair attaining BestCor
	Steps   int       // exhausted search budget
}

func (e *ThresholdUnreachableError) Error() string {
	return fmt.Sprintf("collinear: no height cutoff within %d steps meets max_cor = %g; best achieved |r| = %g between %q and %q",
		e.Steps, e.MaxCor, e.BestCor, e.Pair[0], e.Pair[1])
}
