package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/piwi3910/cutplan/internal/engine"
	"github.com/piwi3910/cutplan/internal/logger"
)

func runCompare(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var jf jobFlags
	jf.register(fs)
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	logger.InitWithWriter(stderr, *logLevel, true)

	job, err := jf.build(fs, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	results := engine.CompareScenarios(context.Background(), engine.BuildDefaultScenarios(job.Settings), job.Groups)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tKerf\tRotation\tSheets\tPieces\tWaste %\tFailed Groups\t")
	for _, r := range results {
		rotation := "off"
		if r.Scenario.Settings.AllowRotation {
			rotation = "on"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%.2f\t%d\t\n",
			r.Scenario.Name, r.Scenario.Settings.Kerf, rotation,
			r.SheetsUsed, r.PiecesPlaced, r.WastePercent, r.FailedGroups)
	}
	tw.Flush()
	return exitOK
}
