package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gonum.org/v1/plot/vg"

	"github.com/statkit/collinear"
)

type options struct {
	input    string
	ranking  string
	omit     []string
	sel      []string
	prefer   []string
	maxCor   float64
	vifThr   float64
	steps    int
	workers  int
	plotPath string
	verbose  bool
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "collin",
		Short: "Reduce multicollinearity in a numeric CSV dataset",
	}
	root.PersistentFlags().StringVarP(&opts.input, "input", "i", "", "input CSV file (header row, numeric columns)")
	root.PersistentFlags().StringVar(&opts.ranking, "ranking", "", "CSV file of variable,score pairs (higher preferred)")
	root.PersistentFlags().StringSliceVar(&opts.omit, "omit", nil, "columns to drop")
	root.PersistentFlags().StringSliceVar(&opts.sel, "select", nil, "columns to keep (default: all numeric)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every selection decision")

	root.AddCommand(clusterCmd(opts))
	root.AddCommand(vifCmd(opts))
	return root
}

func clusterCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Select variables by correlation-distance clustering",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := load(opts)
			if err != nil {
				return err
			}
			cfg.MaxCor = opts.maxCor
			cfg.HeightSteps = opts.steps

			result, err := collinear.ClusterSelect(m, cfg)
			if err != nil {
				return err
			}
			printCluster(result)

			if opts.plotPath != "" && result.Dendrogram != nil {
				if err := result.Dendrogram.RenderPNG(opts.plotPath, 20*vg.Centimeter, 12*vg.Centimeter); err != nil {
					return err
				}
				fmt.Printf("dendrogram written to %s\n", opts.plotPath)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.maxCor, "max-cor", 0.75, "maximum absolute pairwise correlation")
	cmd.Flags().IntVar(&opts.steps, "steps", 200, "height search discretization")
	cmd.Flags().StringVar(&opts.plotPath, "plot", "", "write the dendrogram as PNG to this path")
	return cmd
}

func vifCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vif",
		Short: "Select variables by iterative VIF pruning or growing",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := load(opts)
			if err != nil {
				return err
			}
			cfg.VIFThreshold = opts.vifThr
			cfg.Preference = opts.prefer

			result, err := collinear.VIFSelect(m, cfg)
			if err != nil {
				return err
			}
			printVIF(result)
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.vifThr, "vif-threshold", 5, "maximum acceptable VIF")
	cmd.Flags().StringSliceVar(&opts.prefer, "prefer", nil, "explicit preference order, highest priority first")
	return cmd
}

// load reads the dataset and shared configuration for both subcommands.
func load(opts *options) (*collinear.Matrix, collinear.Config, error) {
	cfg := collinear.DefaultConfig()
	cfg.Workers = opts.workers
	if opts.verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		cfg.Logger = &logger
	}

	if opts.input == "" {
		return nil, cfg, fmt.Errorf("--input is required")
	}
	ds, err := loadCSV(opts.input)
	if err != nil {
		return nil, cfg, err
	}
	m, err := collinear.Prepare(ds, collinear.PrepareOptions{Omit: opts.omit, Select: opts.sel})
	if err != nil {
		return nil, cfg, err
	}

	if opts.ranking != "" {
		cfg.Ranking, err = loadRanking(opts.ranking)
		if err != nil {
			return nil, cfg, err
		}
	}
	return m, cfg, nil
}

// loadCSV reads a header-row CSV into a Dataset. A cell is missing when it is
// empty, "NA", or "NaN". Columns with any other non-numeric cell are dropped
// entirely (they are not numeric predictors).
func loadCSV(path string) (collinear.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	header := records[0]
	numeric := make([]bool, len(header))
	for j := range numeric {
		numeric[j] = true
	}
	for _, row := range records[1:] {
		for j, cell := range row {
			if j >= len(header) || cell == "" || cell == "NA" || cell == "NaN" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[j] = false
			}
		}
	}

	ds := make(collinear.Dataset, 0, len(records)-1)
	for _, row := range records[1:] {
		obs := make(map[string]float64, len(header))
		for j, cell := range row {
			if j >= len(header) || !numeric[j] || cell == "" || cell == "NA" || cell == "NaN" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			obs[header[j]] = v
		}
		ds = append(ds, obs)
	}
	return ds, nil
}

// loadRanking reads variable,score pairs, skipping a header row when the
// second field does not parse.
func loadRanking(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ranking := make(map[string]float64, len(records))
	for i, row := range records {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d needs variable,score", path, i+1)
		}
		score, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%s: row %d: bad score %q", path, i+1, row[1])
		}
		ranking[row[0]] = score
	}
	return ranking, nil
}

func printCluster(result *collinear.Result) {
	fmt.Printf("selected %d variables (cut height %.4f):\n", len(result.Selected), result.CutHeight)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "variable\tgroup\tscore\tselected")
	for _, e := range result.Groups {
		score := "-"
		if !math.IsNaN(e.Score) {
			score = strconv.FormatFloat(e.Score, 'g', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%v\n", e.Variable, e.Group, score, e.Selected)
	}
	w.Flush()
}

func printVIF(result *collinear.Result) {
	fmt.Printf("selected %d variables:\n", len(result.Selected))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "variable\tvif")
	if len(result.VIFs) == 0 {
		for _, name := range result.Selected {
			fmt.Fprintf(w, "%s\t-\n", name)
		}
	}
	for _, e := range result.VIFs {
		fmt.Fprintf(w, "%s\t%.3f\n", e.Variable, e.VIF)
	}
	w.Flush()
}
