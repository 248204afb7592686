package collinear

import (
	"math"
	"sort"
)

// Linkage selects the agglomeration rule used to build a ClusterTree.
type Linkage string

const (
	// LinkageSingle merges on the minimum pairwise distance between groups
	// (tightest chain). The automatic height search requires it: it reasons
	// about a cutoff height as the maximum pairwise distance within a flat
	// group, which single linkage approximates incrementally.
	LinkageSingle Linkage = "single"

	// LinkageComplete merges on the maximum pairwise distance between groups.
	// Default for the exploratory mode.
	LinkageComplete Linkage = "complete"

	// LinkageAverage merges on the size-weighted mean distance between groups.
	LinkageAverage Linkage = "average"
)

// ClusterTree is a binary merge tree over named variables in scipy linkage
// format: row i merges clusters Merges()[i][0] and Merges()[i][1] at height
// Merges()[i][2] into cluster n+i, and Merges()[i][3] is the merged size.
// Leaves are 0..n-1 in label order; merge heights are non-decreasing.
// Immutable once built.
type ClusterTree struct {
	labels []string
	merges [][4]float64
}

// BuildTree builds a hierarchical clustering over a flat row-major n×n
// distance matrix, where n = len(labels). Single linkage goes through a
// minimum spanning tree; complete and average linkage use nearest-pair
// agglomeration with Lance-Williams distance updates. Nearest-pair ties break
// toward the first occurrence in label order.
func BuildTree(labels []string, dist []float64, linkage Linkage) *ClusterTree {
	n := len(labels)
	t := &ClusterTree{labels: append([]string(nil), labels...)}
	if n < 2 {
		return t
	}
	if linkage == LinkageSingle {
		t.merges = relabelEdges(primMST(dist, n), n)
	} else {
		t.merges = agglomerate(dist, n, linkage)
	}
	return t
}

// primMST computes a minimum spanning tree over the dense distance matrix
// using Prim's algorithm. Returns n-1 edges as [from, to, weight] in chain
// format: "from" is the node added in the previous step.
func primMST(dist []float64, n int) [][3]float64 {
	inTree := make([]bool, n)
	current := make([]float64, n)

	inTree[0] = true
	currentNode := 0
	current[0] = math.Inf(1) // node 0 is in the tree, distance irrelevant
	for j := 1; j < n; j++ {
		current[j] = dist[j]
	}

	edges := make([][3]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && current[j] < minDist {
				minDist = current[j]
				minNode = j
			}
		}

		edges = append(edges, [3]float64{
			float64(currentNode),
			float64(minNode),
			minDist,
		})
		inTree[minNode] = true
		currentNode = minNode

		for k := 0; k < n; k++ {
			if !inTree[k] && dist[minNode*n+k] < current[k] {
				current[k] = dist[minNode*n+k]
			}
		}
	}
	return edges
}

// relabelEdges converts MST edges into single-linkage dendrogram rows in
// scipy format. Edges are sorted by weight ascending; each merge joins the
// current roots of its endpoints and assigns the next cluster ID (n + row
// index) as the merged root.
func relabelEdges(edges [][3]float64, n int) [][4]float64 {
	sorted := make([][3]float64, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][2] < sorted[j][2]
	})

	uf := newUnionFind(n)
	rows := make([][4]float64, 0, len(sorted))
	for _, edge := range sorted {
		a := uf.find(int(edge[0]))
		b := uf.find(int(edge[1]))
		newSize := uf.size[a] + uf.size[b]

		rows = append(rows, [4]float64{float64(a), float64(b), edge[2], float64(newSize)})

		// Relabel the merged root to the next dendrogram cluster ID.
		uf.size[uf.nextLabel] = newSize
		uf.parent[a] = uf.nextLabel
		uf.parent[b] = uf.nextLabel
		uf.nextLabel++
	}
	return rows
}

// agglomerate runs nearest-pair agglomeration over a working copy of the
// distance matrix, updating merged-group distances per the linkage rule.
type activeCluster struct {
	id   int
	size int
}

func agglomerate(dist []float64, n int, linkage Linkage) [][4]float64 {
	active := make([]activeCluster, n)
	d := make([][]float64, n)
	for i := 0; i < n; i++ {
		active[i] = activeCluster{id: i, size: 1}
		d[i] = make([]float64, n)
		copy(d[i], dist[i*n:(i+1)*n])
	}

	rows := make([][4]float64, 0, n-1)
	nextID := n
	for len(active) > 1 {
		// Nearest active pair; strict < keeps the earliest pair on ties.
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				if d[i][j] < best {
					best = d[i][j]
					bi, bj = i, j
				}
			}
		}

		si, sj := active[bi].size, active[bj].size
		rows = append(rows, [4]float64{
			float64(active[bi].id),
			float64(active[bj].id),
			best,
			float64(si + sj),
		})

		// Lance-Williams update: fold bj into bi.
		for k := 0; k < len(active); k++ {
			if k == bi || k == bj {
				continue
			}
			var nd float64
			switch linkage {
			case LinkageAverage:
				nd = (float64(si)*d[bi][k] + float64(sj)*d[bj][k]) / float64(si+sj)
			default: // complete
				nd = math.Max(d[bi][k], d[bj][k])
			}
			d[bi][k] = nd
			d[k][bi] = nd
		}
		active[bi] = activeCluster{id: nextID, size: si + sj}
		nextID++

		// Drop slot bj by swapping it with the last active slot.
		last := len(active) - 1
		if bj != last {
			active[bj] = active[last]
			for k := 0; k <= last; k++ {
				d[bj][k], d[last][k] = d[last][k], d[bj][k]
			}
			for k := 0; k <= last; k++ {
				d[k][bj], d[k][last] = d[k][last], d[k][bj]
			}
		}
		active = active[:last]
	}
	return rows
}

// Labels returns the leaf labels in tree order. The slice is a copy.
func (t *ClusterTree) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Merges returns the scipy-format merge rows. The slice is a copy.
func (t *ClusterTree) Merges() [][4]float64 {
	return append([][4]float64(nil), t.merges...)
}

// Heights returns the merge heights in row order (non-decreasing).
func (t *ClusterTree) Heights() []float64 {
	hs := make([]float64, len(t.merges))
	for i, row := range t.merges {
		hs[i] = row[2]
	}
	return hs
}

// Cut cuts the tree at height h into flat groups: every merge with height
// <= h is applied. Returns one group ID per leaf in label order, with group
// IDs numbered by first occurrence. Cutting below the smallest merge height
// yields all singletons; cutting at or above the largest yields one group.
func (t *ClusterTree) Cut(h float64) []int {
	n := len(t.labels)
	uf := newUnionFind(n)

	// rep maps a merged cluster ID to one leaf inside it, so later rows can
	// reference earlier merges through leaf-level unions only.
	rep := make(map[int]int, len(t.merges))
	leafOf := func(id int) int {
		if id < n {
			return id
		}
		return rep[id]
	}
	for i, row := range t.merges {
		a := leafOf(int(row[0]))
		b := leafOf(int(row[1]))
		rep[n+i] = a
		if row[2] <= h {
			uf.union(a, b)
		}
	}

	groups := make([]int, n)
	gid := make(map[int]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		id, ok := gid[root]
		if !ok {
			id = len(gid)
			gid[root] = id
		}
		groups[i] = id
	}
	return groups
}
