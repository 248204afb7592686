package collinear

import (
	"math"
	"sort"
	"sync"
)

// vifSelect resolves the selection policy from the configuration and runs it
// over the full column set of m.
func vifSelect(m *Matrix, cfg *Config) (*Result, error) {
	if err := m.checkVariance(); err != nil {
		return nil, err
	}

	candidates := m.Names()
	var selected []string
	switch {
	case cfg.Ranking != nil:
		selected = growByPreference(m, rankOrder(candidates, cfg.Ranking), cfg)
	case len(cfg.Preference) > 0 && len(cfg.Preference) < len(candidates):
		selected = hybridSelect(m, cfg.Preference, cfg)
	case len(cfg.Preference) > 0:
		selected = growByPreference(m, cfg.Preference, cfg)
	default:
		selected = pruneMaxVIF(m, candidates, cfg)
	}

	// Supporting table over the final accepted set. A single survivor has no
	// defined VIF, leaving the table empty.
	table := VIFTable(m, selected, cfg.effectiveWorkers())
	var vifs []VIFEntry
	if len(table) > 0 {
		vifs = make([]VIFEntry, len(selected))
		for i, name := range selected {
			vifs[i] = VIFEntry{Variable: name, VIF: table[name]}
		}
	}

	return &Result{
		Method:   MethodVIF,
		Selected: selected,
		VIFs:     vifs,
	}, nil
}

// pruneMaxVIF is the no-preference policy: start from all candidates and
// repeatedly remove the single variable with the strictly highest VIF until
// every VIF is within the threshold. Ties break toward the first occurrence
// in input order. Singular candidates carry +Inf and so are removed first.
// The set shrinks every iteration, so the loop is bounded by |candidates|;
// a two-variable set cannot shrink further (VIF is undefined below that).
func pruneMaxVIF(m *Matrix, candidates []string, cfg *Config) []string {
	logger := cfg.logger()
	s := append([]string(nil), candidates...)
	for len(s) >= 2 {
		table := VIFTable(m, s, cfg.effectiveWorkers())

		worst := 0
		withinThreshold := true
		for i, name := range s {
			v := table[name]
			if v > cfg.VIFThreshold {
				withinThreshold = false
			}
			if v > table[s[worst]] {
				worst = i
			}
		}
		if withinThreshold {
			break
		}

		logger.Debug().
			Str("variable", s[worst]).
			Float64("vif", table[s[worst]]).
			Float64("threshold", cfg.VIFThreshold).
			Msg("removed: highest VIF above threshold")
		s = append(s[:worst], s[worst+1:]...)
	}
	return s
}

// growByPreference is the preference-ordered policy: walk the order from
// highest priority down, accepting each variable only if the tentative set
// including it keeps every VIF within the threshold. An accepted variable is
// never removed later, so lower-priority variables can never dislodge
// higher-priority ones.
func growByPreference(m *Matrix, order []string, cfg *Config) []string {
	logger := cfg.logger()
	s := make([]string, 0, len(order))
	for _, v := range order {
		tentative := append(append([]string(nil), s...), v)
		if len(tentative) < 2 {
			s = tentative
			continue
		}

		table := VIFTable(m, tentative, cfg.effectiveWorkers())
		accept := true
		for _, vif := range table {
			if vif > cfg.VIFThreshold {
				accept = false
				break
			}
		}
		if accept {
			s = tentative
			continue
		}
		logger.Debug().
			Str("variable", v).
			Float64("vif", table[v]).
			Float64("threshold", cfg.VIFThreshold).
			Msg("rejected: adding variable pushes VIF above threshold")
	}
	return s
}

// hybridSelect handles an explicit preference order naming only a subset of
// the candidates: preference-ordered growth over the named subset, max-VIF
// removal over the remainder, then a joint growth pass over the union with
// the preferred survivors ordered first. The final pass guarantees the joint
// constraint even though the two halves were selected independently; since
// every union member already passed its own half's threshold, re-running
// growth cannot starve the preferred survivors.
func hybridSelect(m *Matrix, preference []string, cfg *Config) []string {
	inPref := make(map[string]bool, len(preference))
	for _, name := range preference {
		inPref[name] = true
	}
	var rest []string
	for _, name := range m.names {
		if !inPref[name] {
			rest = append(rest, name)
		}
	}

	// The two halves are independent of each other's collinearity.
	var preferred, remainder []string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		preferred = growByPreference(m, preference, cfg)
	}()
	go func() {
		defer wg.Done()
		remainder = pruneMaxVIF(m, rest, cfg)
	}()
	wg.Wait()

	union := append(append([]string(nil), preferred...), remainder...)
	return growByPreference(m, union, cfg)
}

// rankOrder sorts variable names by descending ranking score. Variables
// without an entry rank lowest; equal scores keep input order.
func rankOrder(names []string, ranking map[string]float64) []string {
	ordered := append([]string(nil), names...)
	score := func(name string) float64 {
		if s, ok := ranking[name]; ok {
			return s
		}
		return math.Inf(-1)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return score(ordered[i]) > score(ordered[j])
	})
	return ordered
}
