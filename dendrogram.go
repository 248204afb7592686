package collinear

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Dendrogram is a renderable description of a cluster tree plus selection
// annotations. It is the side channel handed to an external rendering or
// reporting collaborator; selection correctness never depends on it, and a
// rendering failure never invalidates a Result.
type Dendrogram struct {
	// Labels are the leaf variable names, indices matching the merge rows.
	Labels []string

	// Merges are the scipy-format rows [left, right, height, size]; leaves
	// are 0..n-1, merged clusters n..2n-2.
	Merges [][4]float64

	// Threshold is the correlation threshold marker height, 1 - MaxCor.
	Threshold float64

	// CutHeight is the cutoff chosen by the automatic mode, 0 when no cut
	// was made (exploratory mode).
	CutHeight float64

	// Selected flags the variables retained by the selection.
	Selected map[string]bool
}

func newDendrogram(tree *ClusterTree, threshold, cutHeight float64, selected map[string]bool) *Dendrogram {
	sel := make(map[string]bool, len(selected))
	for name, ok := range selected {
		sel[name] = ok
	}
	return &Dendrogram{
		Labels:    tree.Labels(),
		Merges:    tree.Merges(),
		Threshold: threshold,
		CutHeight: cutHeight,
		Selected:  sel,
	}
}

// RenderPNG draws the dendrogram with its threshold marker and saves it as a
// PNG file. Leaves are placed in tree traversal order so that branches never
// cross.
func (d *Dendrogram) RenderPNG(path string, width, height vg.Length) error {
	n := len(d.Labels)
	if n < 2 || len(d.Merges) != n-1 {
		return fmt.Errorf("collinear: dendrogram needs n-1 merge rows for n >= 2 labels, got n=%d with %d rows", n, len(d.Merges))
	}

	// Leaf order by depth-first traversal from the root cluster 2n-2.
	order := make([]int, 0, n)
	var walk func(id int)
	walk = func(id int) {
		if id < n {
			order = append(order, id)
			return
		}
		row := d.Merges[id-n]
		walk(int(row[0]))
		walk(int(row[1]))
	}
	walk(2*n - 2)

	// x and top height per cluster ID; a merged cluster sits midway between
	// its children.
	x := make([]float64, 2*n-1)
	top := make([]float64, 2*n-1)
	for slot, leaf := range order {
		x[leaf] = float64(slot)
	}
	for i, row := range d.Merges {
		l, r := int(row[0]), int(row[1])
		x[n+i] = (x[l] + x[r]) / 2
		top[n+i] = row[2]
	}

	p := plot.New()
	p.Title.Text = "Correlation-distance dendrogram"
	p.Y.Label.Text = "1 - |r|"
	labels := make([]string, n)
	for slot, leaf := range order {
		labels[slot] = d.Labels[leaf]
	}
	p.NominalX(labels...)

	for i, row := range d.Merges {
		l, r := int(row[0]), int(row[1])
		h := row[2]
		bracket, err := plotter.NewLine(plotter.XYs{
			{X: x[l], Y: top[l]},
			{X: x[l], Y: h},
			{X: x[r], Y: h},
			{X: x[r], Y: top[r]},
		})
		if err != nil {
			return fmt.Errorf("collinear: dendrogram merge %d: %w", i, err)
		}
		p.Add(bracket)
	}

	marker, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: d.Threshold},
		{X: float64(n) - 0.5, Y: d.Threshold},
	})
	if err != nil {
		return fmt.Errorf("collinear: dendrogram threshold marker: %w", err)
	}
	marker.Color = color.RGBA{R: 0xcc, A: 0xff}
	marker.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(marker)

	return p.Save(width, height, path)
}
