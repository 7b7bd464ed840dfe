package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chazu/airframe/pkg/fuselage"
	"github.com/chazu/airframe/pkg/logging"
	"github.com/chazu/airframe/pkg/report"
	"github.com/spf13/cobra"
)

func addSelectionFlags(cmd *cobra.Command, sel *Selection) {
	f := cmd.Flags()
	f.StringVarP(&sel.Aircraft, "aircraft", "a", string(fuselage.ATR72), "reference aircraft")
	f.StringVarP(&sel.ScriptPath, "script", "s", "", "fuselage script; overrides --aircraft")
	f.StringVar(&sel.ID, "id", "", "fuselage id within the script (default: the first)")
	f.StringVar(&sel.Method, "method", "", "wetted-area method (stanford, torenbeek)")
}

// ----------------------------------------------------------------------------
// compute

var computeOpts struct {
	sel      Selection
	format   string
	stations bool
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a fuselage and print its derived quantities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, rep, err := app.Report(cmd.Context(), computeOpts.sel)
		if err != nil {
			return err
		}
		return rep.Write(cmd.OutOrStdout(), computeOpts.format, computeOpts.stations)
	},
}

// ----------------------------------------------------------------------------
// check

var checkOpts struct {
	sel    Selection
	strict bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare a fuselage against the design-rule ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, err := app.Geometry(cmd.Context(), checkOpts.sel)
		if err != nil {
			return err
		}
		res := fuselage.CheckGeometry(g)
		app.recordWarnings(g, res)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tVALUE\tMIN\tMAX\tSTATUS")
		for _, b := range res.Bounds {
			status := "ok"
			if !b.Within() {
				status = "WARN"
			}
			fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%s\n", b.Code, b.Value, b.Min, b.Max, status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if checkOpts.strict && !res.OK() {
			return fmt.Errorf("%d design-rule warnings", len(res.Warnings))
		}
		return nil
	},
}

// ----------------------------------------------------------------------------
// stations

var stationsOpts struct {
	sel Selection
}

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the cross-section stations of a fuselage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, rep, err := app.Report(cmd.Context(), stationsOpts.sel)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STATION\tX\tWIDTH\tHEIGHT\tZ SIDE\tA\tRHO UP\tRHO LOW")
		for _, s := range rep.Stations {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.3f\t%.3f\n",
				s.Name, s.X, s.Width, s.Height, s.ZSide, s.A, s.RhoUpper, s.RhoLower)
		}
		return tw.Flush()
	},
}

// ----------------------------------------------------------------------------
// section

var sectionOpts struct {
	sel Selection
	x   float64
}

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Print the cross-section outline at a longitudinal position",
	Long: `Print the closed cross-section outline at --x as "y z" lines.
Positions outside the fuselage are clamped to the end stations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, err := app.Geometry(cmd.Context(), sectionOpts.sel)
		if err != nil {
			return err
		}
		p, err := g.ProfileAt(sectionOpts.x)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# x %.4f m, area %.4f m²\n", sectionOpts.x, p.Area())
		for _, v := range p.Outline() {
			fmt.Fprintf(w, "%.6f %.6f\n", v.X, v.Y)
		}
		return nil
	},
}

// ----------------------------------------------------------------------------
// aircraft

var aircraftCmd = &cobra.Command{
	Use:   "aircraft",
	Short: "List the built-in reference aircraft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLENGTH\tWIDTH\tHEIGHT\tDECKS")
		for _, id := range fuselage.ReferenceAircraftIDs() {
			p, err := fuselage.ReferenceAircraft(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%d\n",
				id, p.Length, p.CylinderWidth, p.CylinderHeight, p.DeckNumber)
		}
		return tw.Flush()
	},
}

// ----------------------------------------------------------------------------
// export

var exportOpts struct {
	sel    Selection
	out    string
	format string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the side, top and section curves of a fuselage",
	Long: `Write the discretized outer mold line: the side-view upper, lower and
camber lines, the top-view half widths and the eight station sections.
The text format is one "a b" block per curve, readable by gnuplot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		g, err := app.Geometry(ctx, exportOpts.sel)
		if err != nil {
			return err
		}
		curves := report.CurvesFromGeometry(g)
		if exportOpts.out == "" {
			return curves.Write(cmd.OutOrStdout(), exportOpts.format)
		}

		f, err := os.Create(exportOpts.out)
		if err != nil {
			return err
		}
		if err := curves.Write(f, exportOpts.format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info(ctx, "wrote curves",
			logging.String("path", exportOpts.out),
			logging.String("id", curves.ID),
			logging.Int("sections", len(curves.Sections)),
		)
		return nil
	},
}

func init() {
	addSelectionFlags(computeCmd, &computeOpts.sel)
	computeCmd.Flags().StringVarP(&computeOpts.format, "format", "f", "text", "output format (text, json)")
	computeCmd.Flags().BoolVar(&computeOpts.stations, "stations", false, "include the station table")

	addSelectionFlags(checkCmd, &checkOpts.sel)
	checkCmd.Flags().BoolVar(&checkOpts.strict, "strict", false, "exit non-zero when any bound is violated")

	addSelectionFlags(stationsCmd, &stationsOpts.sel)

	addSelectionFlags(sectionCmd, &sectionOpts.sel)
	sectionCmd.Flags().Float64Var(&sectionOpts.x, "x", 0, "longitudinal position in metres")
	_ = sectionCmd.MarkFlagRequired("x")

	addSelectionFlags(exportCmd, &exportOpts.sel)
	exportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "", "output path (default: stdout)")
	exportCmd.Flags().StringVarP(&exportOpts.format, "format", "f", "text", "output format (text, json)")

	rootCmd.AddCommand(computeCmd, checkCmd, stationsCmd, sectionCmd, aircraftCmd, exportCmd)
}
