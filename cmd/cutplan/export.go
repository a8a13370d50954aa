package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/cutplan/internal/export"
	"github.com/piwi3910/cutplan/internal/logger"
	"github.com/piwi3910/cutplan/internal/project"
)

// runExport renders a plan saved by "plan -formats json" without packing
// again.
func runExport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	planPath := fs.String("plan", "", "plan file written by cutplan plan (plan.json)")
	outDir := fs.String("out", ".", "output directory")
	formats := fs.String("formats", "pdf", "comma-separated outputs: "+strings.Join(allFormats, ","))
	pngScale := fs.Float64("png-scale", export.DefaultPNGScale, "PNG pixels per mm")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	var mf machineFlags
	mf.register(fs)

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	logger.InitWithWriter(stderr, *logLevel, true)

	if *planPath == "" {
		fmt.Fprintln(stderr, "export needs -plan")
		return exitUsage
	}
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

	file, err := project.LoadPlan(*planPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	plan := file.Plan

	printSummary(stdout, plan)

	files, err := writeOutputs(*outDir, plan, wanted, outputOptions{pngScale: *pngScale, machine: machine})
	for _, f := range files {
		fmt.Fprintf(stdout, "wrote %s\n", f)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	switch succeeded := len(plan.Succeeded()); {
	case succeeded == len(plan.Groups):
		return exitOK
	case succeeded > 0:
		return exitPartial
	default:
		return exitFailed
	}
}
