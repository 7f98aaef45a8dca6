package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/kitesim/internal/analysis"
	"github.com/san-kum/kitesim/internal/export"
	"github.com/san-kum/kitesim/internal/storage"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSTEPS\tCTRL\tBOAT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "degenerate"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Controller,
			run.BoatModel,
			status,
		)
	}

	return w.Flush()
}

// loadRun opens the store and reads both the metadata and the series of id.
func loadRun(id string) (*storage.RunMetadata, *storage.Series, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	ser, err := st.LoadSeries(id)
	if err != nil {
		return nil, nil, err
	}
	if ser.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s: no data", id)
	}
	return meta, ser, nil
}

func column(ser *storage.Series, name string) ([]float64, error) {
	col, ok := ser.Column(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q (have %s)", name, strings.Join(ser.Columns, ", "))
	}
	return col, nil
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded columns in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringSlice("fields", []string{"theta", "phi", "traction", "kite_speed"}, "columns to plot")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, ser, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fields, _ := cmd.Flags().GetStringSlice("fields")

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", ser.Len())

	for _, name := range fields {
		data, err := column(ser, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run's metadata and samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return st.ExportJSON(os.Stdout, args[0])
		},
	}
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return st.ExportCSV(os.Stdout, args[0])
		},
	}
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and statistics of one recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().String("field", "traction", "column to analyse")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, ser, err := loadRun(args[0])
	if err != nil {
		return err
	}
	field, _ := cmd.Flags().GetString("field")
	data, err := column(ser, field)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, field)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+field+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	s := analysis.Summarize(data)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", s.N)
	fmt.Fprintf(w, "min\t%.4f\n", s.Min)
	fmt.Fprintf(w, "max\t%.4f\n", s.Max)
	fmt.Fprintf(w, "mean\t%.4f\n", s.Mean)
	fmt.Fprintf(w, "stddev\t%.4f\n", s.StdDev)
	fmt.Fprintf(w, "rms\t%.4f\n", analysis.RMS(data))

	freq, _ := analysis.DominantFrequency(data, meta.Dt)
	if freq > 0 {
		fmt.Fprintf(w, "dominant frequency\t%.4f Hz\n", freq)
		fmt.Fprintf(w, "period\t%.4f s\n", analysis.Period(data, meta.Dt))
	} else {
		fmt.Fprintln(w, "dominant frequency\tnone")
	}
	return w.Flush()
}

func phaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two recorded columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	cmd.Flags().String("x", "theta", "column on the x axis")
	cmd.Flags().String("y", "dtheta", "column on the y axis")
	cmd.Flags().String("poincare", "", "also show the section where this column crosses --level upwards")
	cmd.Flags().Float64("level", 0, "crossing level for --poincare")
	return cmd
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, ser, err := loadRun(args[0])
	if err != nil {
		return err
	}
	xName, _ := cmd.Flags().GetString("x")
	yName, _ := cmd.Flags().GetString("y")
	xs, err := column(ser, xName)
	if err != nil {
		return err
	}
	ys, err := column(ser, yName)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xName, yName)
	fmt.Println(analysis.PhasePortraitToASCII(analysis.PhasePortrait(xName, xs, yName, ys), 70, 20))

	crossName, _ := cmd.Flags().GetString("poincare")
	if crossName == "" {
		return nil
	}
	cross, err := column(ser, crossName)
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetFloat64("level")
	section := analysis.NewPoincareSection(cross, level, xs, ys)

	fmt.Printf("\npoincare section: %s = %g, %d crossings\n\n", crossName, level, len(section.Points))
	fmt.Println(analysis.PoincareSectionToASCII(section, 70, 20))
	return nil
}

func pngCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "save a plot of a run as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  savePNG,
	}
	cmd.Flags().String("field", "traction", "column to plot against time")
	cmd.Flags().Bool("track", false, "plot the wing tip tracks instead")
	cmd.Flags().StringP("out", "o", "", "output file (default <run_id>.png)")
	return cmd
}

func savePNG(cmd *cobra.Command, args []string) error {
	meta, ser, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = meta.ID + ".png"
	}

	if track, _ := cmd.Flags().GetBool("track"); track {
		left, err := tipTrack(ser, "left")
		if err != nil {
			return err
		}
		right, err := tipTrack(ser, "right")
		if err != nil {
			return err
		}
		if err := export.SaveTrackPNG(out, meta.ID, left, right); err != nil {
			return err
		}
	} else {
		field, _ := cmd.Flags().GetString("field")
		ts, err := column(ser, "time")
		if err != nil {
			return err
		}
		ys, err := column(ser, field)
		if err != nil {
			return err
		}
		if err := export.SavePNG(out, meta.ID, "time (s)", field, ts, ys); err != nil {
			return err
		}
	}

	fmt.Println("wrote", out)
	return nil
}

// tipTrack rebuilds one wing tip path from its <side>_x/y/z columns.
func tipTrack(ser *storage.Series, side string) ([]mgl64.Vec3, error) {
	var cols [3][]float64
	for i, axis := range []string{"x", "y", "z"} {
		c, err := column(ser, side+"_"+axis)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	out := make([]mgl64.Vec3, len(cols[0]))
	for i := range out {
		out[i] = mgl64.Vec3{cols[0][i], cols[1][i], cols[2][i]}
	}
	return out, nil
}

func svgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the tether end track as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, ser, err := loadRun(args[0])
			if err != nil {
				return err
			}
			left, err := tipTrack(ser, "left")
			if err != nil {
				return err
			}
			right, err := tipTrack(ser, "right")
			if err != nil {
				return err
			}

			// Midpoint of the tips, lateral offset against height.
			points := make([]analysis.Point, len(left))
			for i := range left {
				mid := left[i].Add(right[i]).Mul(0.5)
				points[i] = analysis.Point{X: mid[1], Y: -mid[2]}
			}
			svg := export.TrajectoryToSVG(points, 800, 600, "#00aaaa")
			if svg == "" {
				return fmt.Errorf("run %s: too few samples", meta.ID)
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = meta.ID + ".svg"
			}
			if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file (default <run_id>.svg)")
	return cmd
}
