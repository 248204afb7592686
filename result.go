package collinear

// Method identifies which selector produced a Result. It is an explicit mode
// tag so that callers branching on the result kind never need to inspect
// which fields happen to be populated.
type Method string

const (
	MethodCluster Method = "cluster"
	MethodVIF     Method = "vif"
)

// GroupEntry is one row of the cluster selector's annotated label table,
// consumed by dendrogram rendering and reporting collaborators.
type GroupEntry struct {
	Variable string
	Group    int     // flat group ID at the chosen cutoff
	Score    float64 // ranking score; NaN when the variable has no entry
	Selected bool
}

// VIFEntry is one row of the VIF selector's supporting table: the final VIF
// of an accepted variable within the accepted set.
type VIFEntry struct {
	Variable string
	VIF      float64
}

// Result is the output of a selection call. It is constructed once at the
// end of the call and never mutated afterward.
type Result struct {
	// Method tags which selector built this result.
	Method Method

	// Selected holds the retained variable names, order-preserving and
	// duplicate-free.
	Selected []string

	// CutHeight is the dendrogram cutoff used by the cluster selector's
	// automatic mode. Zero for the exploratory mode and for VIF results.
	CutHeight float64

	// Groups is the cluster selector's label table, one entry per variable
	// in label order. Nil for VIF results.
	Groups []GroupEntry

	// VIFs is the VIF selector's table over the accepted set, in selection
	// order. Nil for cluster results.
	VIFs []VIFEntry

	// Dendrogram describes the tree for an external rendering collaborator.
	// Nil for VIF results. Carries no information the caller needs for
	// correctness.
	Dendrogram *Dendrogram
}
