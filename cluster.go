package collinear

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// clusterSelect implements both cluster selector modes over a prepared
// matrix. The correlation matrix is computed once; the automatic mode then
// searches cutoff heights over the derived distance tree.
func clusterSelect(m *Matrix, cfg *Config) (*Result, error) {
	corr, err := Correlate(m, cfg.effectiveWorkers())
	if err != nil {
		return nil, err
	}

	if cfg.Ranking == nil {
		return exploratorySelect(m, corr, cfg), nil
	}

	// The automatic mode reasons about the cutoff as a bound on pairwise
	// distance within a flat group, so single linkage is forced.
	tree := BuildTree(m.names, corr.Distances(), LinkageSingle)
	selected, cutHeight, groups, err := searchCutoff(tree, corr, cfg)
	if err != nil {
		return nil, err
	}

	isSelected := make(map[string]bool, len(selected))
	for _, name := range selected {
		isSelected[name] = true
	}
	entries := make([]GroupEntry, len(m.names))
	for i, name := range m.names {
		entries[i] = GroupEntry{
			Variable: name,
			Group:    groups[i],
			Score:    rankingScore(cfg.Ranking, name),
			Selected: isSelected[name],
		}
	}

	return &Result{
		Method:     MethodCluster,
		Selected:   selected,
		CutHeight:  cutHeight,
		Groups:     entries,
		Dendrogram: newDendrogram(tree, 1-cfg.MaxCor, cutHeight, isSelected),
	}, nil
}

// exploratorySelect returns the full variable set untouched: the output is
// informational, meant for manual inspection of the dendrogram against the
// threshold marker at 1 - MaxCor.
func exploratorySelect(m *Matrix, corr *CorrMatrix, cfg *Config) *Result {
	tree := BuildTree(m.names, corr.Distances(), cfg.Linkage)

	isSelected := make(map[string]bool, len(m.names))
	entries := make([]GroupEntry, len(m.names))
	for i, name := range m.names {
		isSelected[name] = true
		entries[i] = GroupEntry{
			Variable: name,
			Group:    i, // no cut was made: every variable is its own group
			Score:    rankingScore(cfg.Ranking, name),
			Selected: true,
		}
	}

	return &Result{
		Method:     MethodCluster,
		Selected:   m.Names(),
		Groups:     entries,
		Dendrogram: newDendrogram(tree, 1-cfg.MaxCor, 0, isSelected),
	}
}

// searchCutoff walks cutoff heights upward from the smallest merge height in
// HeightSteps increments, electing one representative per flat group, until
// the representatives' max |r| drops to MaxCor. A coarser cut merges more
// variables into one group and so can only shrink the representative set,
// which makes the forward scan converge to the smallest acceptable cutoff —
// the one keeping the most variables.
//
// When the height range degenerates to a single value the step is zero and
// the first cut already applies every merge, collapsing all variables into
// one group with a single representative.
func searchCutoff(tree *ClusterTree, corr *CorrMatrix, cfg *Config) (selected []string, cutHeight float64, groups []int, err error) {
	heights := tree.Heights()
	minH := floats.Min(heights)
	maxH := floats.Max(heights)
	step := (maxH - minH) / float64(cfg.HeightSteps)
	logger := cfg.logger()

	bestCor := math.Inf(1)
	var bestPair [2]string
	for i := 0; i <= cfg.HeightSteps; i++ {
		// i = 0 applies no merge at all: a set that already satisfies the
		// threshold is returned unchanged (re-running the selector on its
		// own output is a no-op).
		h := minH + step*float64(i)
		if i == 0 {
			groups = tree.Cut(math.Inf(-1))
			h = 0
		} else {
			groups = tree.Cut(h)
		}
		reps := electRepresentatives(tree.labels, groups, cfg.Ranking)
		maxAbs, pair := corr.MaxAbsCorr(reps)
		if maxAbs < bestCor {
			bestCor = maxAbs
			bestPair = pair
		}
		if maxAbs <= cfg.MaxCor {
			logger.Debug().
				Float64("height", h).
				Int("step", i).
				Int("representatives", len(reps)).
				Float64("max_abs_corr", maxAbs).
				Msg("height cutoff accepted")
			return reps, h, groups, nil
		}
		logger.Debug().
			Float64("height", h).
			Int("step", i).
			Float64("max_abs_corr", maxAbs).
			Str("worst_pair_a", pair[0]).
			Str("worst_pair_b", pair[1]).
			Msg("height cutoff rejected")
	}

	return nil, 0, nil, &ThresholdUnreachableError{
		MaxCor:  cfg.MaxCor,
		BestCor: bestCor,
		Pair:    bestPair,
		Steps:   cfg.HeightSteps,
	}
}

// electRepresentatives picks, within each flat group, the variable with the
// highest ranking score. Variables without a ranking entry rank lowest; ties
// break toward the first occurrence in label order. The result is in label
// order.
func electRepresentatives(labels []string, groups []int, ranking map[string]float64) []string {
	bestIdx := make(map[int]int, len(labels))
	bestScore := make(map[int]float64, len(labels))
	for i, label := range labels {
		g := groups[i]
		score := math.Inf(-1)
		if s, ok := ranking[label]; ok {
			score = s
		}
		if cur, ok := bestScore[g]; !ok || score > cur {
			bestIdx[g] = i
			bestScore[g] = score
		}
	}

	reps := make([]string, 0, len(bestIdx))
	for i, label := range labels {
		if bestIdx[groups[i]] == i {
			reps = append(reps, label)
		}
	}
	return reps
}

// rankingScore looks a variable up in the ranking, NaN when absent. Used
// only for the reporting table; election uses -Inf for absent entries.
func rankingScore(ranking map[string]float64, name string) float64 {
	if s, ok := ranking[name]; ok {
		return s
	}
	return math.NaN()
}
