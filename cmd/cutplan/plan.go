package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/cutplan/internal/engine"
	"github.com/piwi3910/cutplan/internal/export"
	"github.com/piwi3910/cutplan/internal/gcode"
	"github.com/piwi3910/cutplan/internal/logger"
	"github.com/piwi3910/cutplan/internal/metrics"
	"github.com/piwi3910/cutplan/internal/model"
	"github.com/piwi3910/cutplan/internal/project"
	"github.com/rs/zerolog/log"
)

var allFormats = []string{"pdf", "png", "xlsx", "dxf", "labels", "json", "gcode"}

// outputOptions carries the per-format knobs of writeOutputs.
type outputOptions struct {
	pngScale float64
	machine  gcode.Settings
}

func runPlan(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var jf jobFlags
	jf.register(fs)
	var mf machineFlags
	mf.register(fs)
	outDir := fs.String("out", ".", "output directory")
	formats := fs.String("formats", "pdf,json", "comma-separated outputs: "+strings.Join(allFormats, ","))
	pngScale := fs.Float64("png-scale", export.DefaultPNGScale, "PNG pixels per mm")
	saveJob := fs.String("save-job", "", "also write the assembled job to this file")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	logger.InitWithWriter(stderr, *logLevel, true)

	wanted, err := parseFormats(*formats)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	machine, err := mf.build(fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	job, err := jf.build(fs, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	if *saveJob != "" {
		if err := project.SaveJob(*saveJob, job); err != nil {
			fmt.Fprintf(stderr, "save job: %v\n", err)
			return exitFailed
		}
	}

	start := time.Now()
	plan, planErr := engine.PlanJob(context.Background(), job)
	metrics.RecordPlan(plan, planErr, time.Since(start))
	if plan.Groups == nil && planErr != nil {
		fmt.Fprintln(stderr, planErr)
		return exitFailed
	}

	printSummary(stdout, plan)

	files, err := writeOutputs(*outDir, plan, wanted, outputOptions{pngScale: *pngScale, machine: machine})
	for _, f := range files {
		fmt.Fprintf(stdout, "wrote %s\n", f)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	switch {
	case planErr == nil:
		return exitOK
	case len(plan.Succeeded()) > 0:
		log.Warn().Err(planErr).Msg("Some thickness groups could not be packed")
		return exitPartial
	default:
		fmt.Fprintln(stderr, planErr)
		return exitFailed
	}
}

func parseFormats(s string) (map[string]bool, error) {
	wanted := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "all" {
			for _, a := range allFormats {
				wanted[a] = true
			}
			continue
		}
		known := false
		for _, a := range allFormats {
			if a == f {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown format %q (want %s or all)", f, strings.Join(allFormats, ","))
		}
		wanted[f] = true
	}
	return wanted, nil
}

// writeOutputs renders the wanted documents into dir. Documents that need
// packed sheets are skipped with a warning when no group packed.
func writeOutputs(dir string, plan model.Plan, wanted map[string]bool, opts outputOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	single := func(format, name string, fn func(string, model.Plan) error) error {
		if !wanted[format] {
			return nil
		}
		path := filepath.Join(dir, name)
		if err := fn(path, plan); err != nil {
			if errors.Is(err, export.ErrNothingToExport) {
				log.Warn().Str("format", format).Msg("Nothing to export")
				return nil
			}
			return fmt.Errorf("write %s: %w", format, err)
		}
		written = append(written, path)
		return nil
	}

	steps := []struct {
		format, name string
		fn           func(string, model.Plan) error
	}{
		{"pdf", "cutting_plan.pdf", export.ExportPDF},
		{"xlsx", "cutting_plan.xlsx", export.ExportXLSX},
		{"dxf", "cutting_plan.dxf", export.ExportDXF},
		{"labels", "labels.pdf", export.ExportLabels},
		{"json", "plan.json", project.SavePlan},
	}
	for _, s := range steps {
		if err := single(s.format, s.name, s.fn); err != nil {
			return written, err
		}
	}

	if wanted["png"] {
		paths, err := export.ExportPNGs(dir, plan, opts.pngScale)
		switch {
		case errors.Is(err, export.ErrNothingToExport):
			log.Warn().Str("format", "png").Msg("Nothing to export")
		case err != nil:
			return written, fmt.Errorf("write png: %w", err)
		default:
			written = append(written, paths...)
		}
	}

	if wanted["gcode"] {
		paths, err := writeGCode(filepath.Join(dir, "gcode"), plan, opts.machine)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// writeGCode writes one program per sheet and logs clamp collisions and
// estimated run times. Collisions are warnings, not failures.
func writeGCode(dir string, plan model.Plan, machine gcode.Settings) ([]string, error) {
	collisions, err := gcode.CheckPlan(plan, machine)
	if err != nil {
		return nil, fmt.Errorf("write gcode: %w", err)
	}
	for _, c := range collisions {
		log.Warn().
			Str("group", c.Group).
			Int("sheet", c.Sheet).
			Str("piece", c.Piece).
			Str("zone", c.Zone).
			Float64("distance_mm", c.Distance).
			Msg("Toolpath passes close to a clamp")
	}

	paths, err := gcode.ExportGCode(dir, plan, machine)
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		log.Warn().Str("format", "gcode").Msg("Nothing to export")
		return nil, nil
	case err != nil:
		return paths, fmt.Errorf("write gcode: %w", err)
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return paths, err
		}
		st := gcode.Analyze(gcode.ParseGCode(string(data)), 0)
		log.Debug().
			Str("file", filepath.Base(p)).
			Float64("cut_mm", st.CutLength).
			Int("plunges", st.Plunges).
			Float64("minutes", st.Minutes).
			Msg("GCode written")
	}
	return paths, nil
}

// printSummary writes the per-thickness table shown at the end of a run.
func printSummary(w io.Writer, plan model.Plan) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Thickness\tTotal Sheets\tTotal Pieces\tApprox Waste %\tMin Sheets\tOffcuts\t")
	for _, r := range export.SummaryRows(plan) {
		if r.FailureReason != "" {
			fmt.Fprintf(tw, "%dmm\t-\t-\t-\t-\t-\tFAILED: %s\n", r.Thickness, r.FailureReason)
			continue
		}
		fmt.Fprintf(tw, "%dmm\t%d\t%d\t%.2f\t%d\t%d\t\n",
			r.Thickness, r.TotalSheets, r.TotalPieces, r.WastePct, r.MinSheets, r.RemnantCount)
	}
	tw.Flush()
}
