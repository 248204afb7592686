package collinear

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Config controls both selectors. Start with [DefaultConfig] and override the
// fields you need.
type Config struct {
	// MaxCor is the cluster selector's correlation threshold: the automatic
	// mode searches for the smallest cutoff whose group representatives have
	// max |r| <= MaxCor. Must be in [0, 1]. Default: 0.75.
	MaxCor float64

	// VIFThreshold is the VIF selector's acceptance bound. The conventional
	// value for moderate collinearity is 5. Must be > 1 (VIF is never below
	// 1). Default: 5.
	VIFThreshold float64

	// Linkage is the agglomeration rule for the cluster selector's
	// exploratory mode. The automatic (ranking) mode always uses single
	// linkage regardless of this setting. Default: LinkageComplete.
	Linkage Linkage

	// HeightSteps is the discretization of the cluster selector's height
	// search between the smallest and largest merge heights. Must be >= 1.
	// Default: 200.
	HeightSteps int

	// Ranking maps variable names to an externally supplied quality score
	// (higher = more preferred), e.g. a biserial correlation against a
	// binary response. When set, ClusterSelect runs its automatic mode and
	// VIFSelect grows by descending score. Variables without an entry rank
	// lowest. Optional.
	Ranking map[string]float64

	// Preference is an explicit preference order (highest priority first)
	// for VIFSelect. Ignored when Ranking is set. When it names a strict
	// subset of the candidates, VIFSelect runs its hybrid policy. Optional.
	Preference []string

	// Workers controls the number of goroutines for the independently
	// parallelizable sub-computations (pairwise correlations, per-variable
	// VIF refresh). 0 means runtime.NumCPU(). Results are identical to
	// sequential execution.
	Workers int

	// Logger receives one event per removal/rejection decision. Nil disables
	// progress reporting.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config with conventional defaults.
func DefaultConfig() Config {
	return Config{
		MaxCor:       0.75,
		VIFThreshold: 5,
		Linkage:      LinkageComplete,
		HeightSteps:  200,
	}
}

func validateConfig(cfg *Config, m *Matrix) error {
	if m == nil {
		return fmt.Errorf("collinear: matrix must not be nil")
	}
	if cfg.MaxCor < 0 || cfg.MaxCor > 1 {
		return fmt.Errorf("collinear: MaxCor must be in [0, 1], got %f", cfg.MaxCor)
	}
	if cfg.VIFThreshold <= 1 {
		return fmt.Errorf("collinear: VIFThreshold must be > 1, got %f", cfg.VIFThreshold)
	}
	if cfg.HeightSteps < 1 {
		return fmt.Errorf("collinear: HeightSteps must be >= 1, got %d", cfg.HeightSteps)
	}
	switch cfg.Linkage {
	case LinkageSingle, LinkageComplete, LinkageAverage:
	default:
		return fmt.Errorf("collinear: invalid Linkage %q", cfg.Linkage)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("collinear: Workers must be >= 0, got %d", cfg.Workers)
	}
	seen := make(map[string]bool, len(cfg.Preference))
	for _, name := range cfg.Preference {
		if _, ok := m.index[name]; !ok {
			return fmt.Errorf("collinear: preference names unknown column %q", name)
		}
		if seen[name] {
			return fmt.Errorf("collinear: preference names column %q more than once", name)
		}
		seen[name] = true
	}
	return nil
}

// effectiveWorkers resolves Workers to a concrete goroutine count.
func (cfg *Config) effectiveWorkers() int {
	if cfg.Workers == 0 {
		return runtime.NumCPU()
	}
	return cfg.Workers
}

// ClusterSelect selects variables by hierarchical clustering over the
// correlation distance 1-|r|. With cfg.Ranking set it runs the automatic
// height-cutoff search; otherwise it is exploratory and returns the full
// variable set together with a dendrogram description for manual inspection.
func ClusterSelect(m *Matrix, cfg Config) (*Result, error) {
	if err := validateConfig(&cfg, m); err != nil {
		return nil, err
	}
	return clusterSelect(m, &cfg)
}

// VIFSelect selects variables by iterative variance-inflation-factor
// pruning or growing. The policy is resolved from cfg:
//
//   - Ranking set: preference-ordered growth by descending score.
//   - Preference covering all candidates: preference-ordered growth.
//   - Preference naming a strict subset: hybrid (growth over the subset,
//     max-VIF removal over the remainder, then a joint growth pass).
//   - Neither: max-VIF removal over all candidates.
func VIFSelect(m *Matrix, cfg Config) (*Result, error) {
	if err := validateConfig(&cfg, m); err != nil {
		return nil, err
	}
	return vifSelect(m, &cfg)
}
