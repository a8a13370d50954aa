package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/cutplan/internal/gcode"
)

// machineFlags configures GCode output.
type machineFlags struct {
	file      string
	profile   string
	tool      float64
	feed      float64
	passDepth float64
	tabs      int
}

func (m *machineFlags) register(fs *flag.FlagSet) {
	def := gcode.DefaultSettings()
	fs.StringVar(&m.file, "machine", "", "JSON file of GCode machine settings")
	fs.StringVar(&m.profile, "gcode-profile", def.Profile, "controller dialect: "+strings.Join(gcode.ProfileNames(), ", "))
	fs.Float64Var(&m.tool, "tool-diameter", def.ToolDiameter, "cutter diameter in mm (0 uses the kerf)")
	fs.Float64Var(&m.feed, "feed", def.FeedRate, "cutting feed rate in mm/min")
	fs.Float64Var(&m.passDepth, "pass-depth", def.PassDepth, "depth per pass in mm (0 for a single pass)")
	fs.IntVar(&m.tabs, "tabs", def.TabsPerSide, "holding tabs per panel side")
}

// build starts from the defaults, applies the machine file and then any
// flags the user set explicitly.
func (m *machineFlags) build(fs *flag.FlagSet) (gcode.Settings, error) {
	s := gcode.DefaultSettings()
	if m.file != "" {
		data, err := os.ReadFile(m.file)
		if err != nil {
			return s, fmt.Errorf("read machine settings: %w", err)
		}
		if err := json.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse machine settings %s: %w", m.file, err)
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "gcode-profile":
			s.Profile = m.profile
		case "tool-diameter":
			s.ToolDiameter = m.tool
		case "feed":
			s.FeedRate = m.feed
		case "pass-depth":
			s.PassDepth = m.passDepth
		case "tabs":
			s.TabsPerSide = m.tabs
		}
	})
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
