package collinear

import "testing"

func TestUnionFind_New(t *testing.T) {
	uf := newUnionFind(5)

	// Each leaf starts as its own root with size 1.
	for i := 0; i < 5; i++ {
		if root := uf.find(i); root != i {
			t.Errorf("find(%d) = %d, want %d", i, root, i)
		}
		if uf.size[i] != 1 {
			t.Errorf("size[%d] = %d, want 1", i, uf.size[i])
		}
	}
	if uf.nextLabel != 5 {
		t.Errorf("nextLabel = %d, want 5", uf.nextLabel)
	}
}

func TestUnionFind_Union(t *testing.T) {
	uf := newUnionFind(6)

	uf.union(0, 1)
	uf.union(1, 2)
	uf.union(3, 4)

	if uf.find(0) != uf.find(2) {
		t.Error("0 and 2 should share a root")
	}
	if uf.find(0) == uf.find(3) {
		t.Error("0 and 3 should be in different sets")
	}

	root := uf.union(2, 4)
	if uf.size[root] != 5 {
		t.Errorf("merged size = %d, want 5", uf.size[root])
	}
	if uf.find(5) == root {
		t.Error("5 should still be separate")
	}
}

func TestUnionFind_UnionSameSet(t *testing.T) {
	uf := newUnionFind(3)
	uf.union(0, 1)
	r1 := uf.find(0)
	r2 := uf.union(0, 1)
	if r1 != r2 {
		t.Errorf("union of an existing set changed the root: %d vs %d", r1, r2)
	}
}

func TestUnionFind_PathCompression(t *testing.T) {
	uf := newUnionFind(5)
	// Build a chain by hand, then find from the deep end.
	uf.parent[0] = 1
	uf.parent[1] = 2
	uf.parent[2] = 3
	uf.size[3] = 4

	if root := uf.find(0); root != 3 {
		t.Fatalf("find(0) = %d, want 3", root)
	}
	// After compression everything points at the root directly.
	for _, i := range []int{0, 1, 2} {
		if uf.parent[i] != 3 {
			t.Errorf("parent[%d] = %d, want 3 after compression", i, uf.parent[i])
		}
	}
}
