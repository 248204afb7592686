// Package collinear reduces multicollinearity in a numeric predictor matrix.
//
// Given a set of named numeric columns, the package selects a subset of
// variables whose pairwise linear association stays below a user threshold.
// Two independent selection strategies are provided:
//
//   - ClusterSelect builds a hierarchical clustering over the correlation
//     distance 1-|r| and searches for the smallest height cutoff whose
//     per-group representatives satisfy the threshold. With a ranking it
//     selects automatically; without one it is exploratory and returns the
//     full variable set plus a dendrogram description for inspection.
//   - VIFSelect iteratively prunes or grows a candidate set using variance
//     inflation factors, with three greedy policies depending on whether a
//     ranking or an explicit preference order is supplied.
//
// Basic usage:
//
//	m, err := collinear.Prepare(dataset, collinear.PrepareOptions{Omit: []string{"id"}})
//	cfg := collinear.DefaultConfig()
//	cfg.Ranking = scores // variable name -> quality score, higher preferred
//	result, err := collinear.ClusterSelect(m, cfg)
//	// result.Selected holds the retained variable names
//
// Both selectors operate on the same prepared matrix and may be chained by
// the caller (cluster-based pre-filter, then VIF-based refinement via
// Matrix.Subset). Every call is self-contained: no state persists between
// invocations, and a Result is never mutated after construction.
package collinear
