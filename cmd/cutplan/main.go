// cutplan plans plywood cutting: it packs rectangular panels onto stock
// sheets per material thickness and renders the result.
//
// Usage:
//
//	cutplan plan    -job kitchen.json -out ./plan -formats pdf,png,xlsx,json
//	cutplan plan    -paste 18=carcass.txt -paste 6=backs.txt -kerf 3
//	cutplan plan    -input cutlist.csv -formats gcode -gcode-profile mach3 -tabs 2
//	cutplan compare -input cutlist.csv
//	cutplan export  -plan ./plan/plan.json -out ./reprint -formats pdf,png
//	cutplan serve
//
// Build:
//
//	go build -o cutplan ./cmd/cutplan
package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `Usage: cutplan <command> [flags]

Commands:
  plan     pack a cut list and write the cutting plan documents
  compare  pack a cut list under alternative settings and compare
  export   render a saved plan file without packing again
  serve    run the HTTP planning API

Run "cutplan <command> -h" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exit codes
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitPartial = 3
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	switch args[0] {
	case "plan":
		return runPlan(args[1:], stdin, stdout, stderr)
	case "compare":
		return runCompare(args[1:], stdin, stdout, stderr)
	case "export":
		return runExport(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}
}
