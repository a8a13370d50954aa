// Package project saves and loads cutting jobs and finished plans as JSON.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/cutplan/internal/model"
)

// SaveJob persists a job to path as indented JSON, creating any missing
// parent directories.
func SaveJob(path string, job model.Job) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJob reads a job file. Fields the file leaves out keep the values of
// model.NewJob, and groups without a complete sheet get one from the stock
// catalog: by name when the name matches a preset, else the default 8x4.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, err
	}
	return ParseJob(data)
}

// ParseJob decodes a job document with the same defaulting as LoadJob.
func ParseJob(data []byte) (model.Job, error) {
	return DecodeJob(data, model.DefaultSettings())
}

// DecodeJob is ParseJob with caller-chosen settings for the fields the
// document omits.
func DecodeJob(data []byte, defaults model.CutSettings) (model.Job, error) {
	job := model.NewJob()
	job.Settings = defaults
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("parse job: %w", err)
	}
	if job.Groups == nil {
		job.Groups = []model.GroupInput{}
	}
	for i := range job.Groups {
		if err := resolveSheet(&job.Groups[i]); err != nil {
			return model.Job{}, err
		}
	}
	return job, nil
}

func resolveSheet(g *model.GroupInput) error {
	if g.Sheet.Width > 0 && g.Sheet.Height > 0 {
		return nil
	}
	if g.Sheet.Width != 0 || g.Sheet.Height != 0 {
		// One side given but not the other; leave it for validation to report.
		return nil
	}
	if g.Sheet.Name == "" {
		g.Sheet = model.DefaultSheet().Sheet()
		return nil
	}
	preset, ok := model.FindSheet(g.Sheet.Name)
	if !ok {
		return fmt.Errorf("group %s: unknown sheet %q", g.Key(), g.Sheet.Name)
	}
	g.Sheet = preset.Sheet()
	return nil
}
