package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/cutplan/internal/importer"
	"github.com/piwi3910/cutplan/internal/model"
	"github.com/piwi3910/cutplan/internal/project"
	"github.com/rs/zerolog/log"
)

// pasteSource is one pasted size list and the thickness it is cut from.
type pasteSource struct {
	Thickness int // 0 means the -thickness default
	Path      string
}

// pasteList collects repeated -paste flags of the form [THICKNESS=]FILE.
type pasteList []pasteSource

func (p *pasteList) String() string {
	parts := make([]string, len(*p))
	for i, s := range *p {
		parts[i] = s.Path
		if s.Thickness > 0 {
			parts[i] = fmt.Sprintf("%d=%s", s.Thickness, s.Path)
		}
	}
	return strings.Join(parts, ",")
}

func (p *pasteList) Set(v string) error {
	src := pasteSource{Path: v}
	if t, path, ok := strings.Cut(v, "="); ok {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(t), "mm"))
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid thickness %q", t)
		}
		src = pasteSource{Thickness: n, Path: path}
	}
	if src.Path == "" {
		return errors.New("missing file")
	}
	*p = append(*p, src)
	return nil
}

// jobFlags are the inputs shared by plan and compare.
type jobFlags struct {
	jobPath   string
	inputPath string
	pastes    pasteList
	name      string
	sheet     string
	thickness int
	kerf      int
	noRotate  bool
	maxSheets int
	workers   int
}

func (f *jobFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.jobPath, "job", "", "job file (JSON)")
	fs.StringVar(&f.inputPath, "input", "", "cut list to import: .csv, .xlsx or .dxf")
	fs.Var(&f.pastes, "paste", "pasted size list, `[THICKNESS=]FILE` (\"-\" reads stdin); repeatable")
	fs.StringVar(&f.name, "name", "", "job name")
	fs.StringVar(&f.sheet, "sheet", model.DefaultSheet().ID, "stock sheet for imported pieces, by catalog id or name")
	fs.IntVar(&f.thickness, "thickness", 18, "thickness in mm for pieces that name none")
	fs.IntVar(&f.kerf, "kerf", model.DefaultSettings().Kerf, "blade kerf in mm")
	fs.BoolVar(&f.noRotate, "no-rotate", false, "never turn panels 90°")
	fs.IntVar(&f.maxSheets, "max-sheets", 0, "sheet limit per thickness (0 keeps the job's)")
	fs.IntVar(&f.workers, "workers", 0, "thickness groups packed at once (0 keeps the job's)")
}

// build assembles the job from the job file and the imported lists.
// Explicit flags override the job file's settings.
func (f *jobFlags) build(fs *flag.FlagSet, stdin io.Reader) (model.Job, error) {
	if f.jobPath == "" && f.inputPath == "" && len(f.pastes) == 0 {
		return model.Job{}, errors.New("nothing to plan: give -job, -input or -paste")
	}
	if f.thickness <= 0 {
		return model.Job{}, fmt.Errorf("-thickness must be positive, got %d", f.thickness)
	}

	job := model.NewJob()
	if f.jobPath != "" {
		loaded, err := project.LoadJob(f.jobPath)
		if err != nil {
			return model.Job{}, fmt.Errorf("load job: %w", err)
		}
		job = loaded
	}

	preset, ok := model.FindSheet(f.sheet)
	if !ok {
		return model.Job{}, fmt.Errorf("unknown sheet %q", f.sheet)
	}

	var imported []importer.ImportResult
	if f.inputPath != "" {
		res, err := importFile(f.inputPath)
		if err != nil {
			return model.Job{}, err
		}
		imported = append(imported, res)
		if f.name == "" && job.Name == model.NewJob().Name {
			job.Name = strings.TrimSuffix(filepath.Base(f.inputPath), filepath.Ext(f.inputPath))
		}
	}
	for _, src := range f.pastes {
		res, err := readPasted(src, stdin)
		if err != nil {
			return model.Job{}, err
		}
		if src.Thickness > 0 {
			for i := range res.Pieces {
				res.Pieces[i].Thickness = src.Thickness
			}
		}
		imported = append(imported, res)
	}

	for _, res := range imported {
		for _, w := range res.Warnings {
			log.Warn().Msg(w)
		}
		if len(res.Errors) > 0 {
			return model.Job{}, fmt.Errorf("import failed: %s", strings.Join(res.Errors, "; "))
		}
		job.Groups = mergeGroups(job.Groups, res.Groups(f.thickness, preset.Sheet()))
	}

	if f.name != "" {
		job.Name = f.name
	}
	overrideSettings(fs, f, &job.Settings)
	if job.Settings.Kerf < 0 || job.Settings.Kerf > model.MaxKerf {
		return model.Job{}, fmt.Errorf("kerf must be between 0 and %d mm, got %d", model.MaxKerf, job.Settings.Kerf)
	}
	return job, nil
}

// overrideSettings applies the flags the user actually set.
func overrideSettings(fs *flag.FlagSet, f *jobFlags, s *model.CutSettings) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "kerf":
			s.Kerf = f.kerf
		case "no-rotate":
			s.AllowRotation = !f.noRotate
		case "max-sheets":
			s.MaxSheets = f.maxSheets
		case "workers":
			s.Workers = f.workers
		}
	})
}

func importFile(path string) (importer.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return importer.ImportCSV(path), nil
	case ".xlsx", ".xlsm":
		return importer.ImportExcel(path), nil
	case ".dxf":
		return importer.ImportDXF(path), nil
	default:
		return importer.ImportResult{}, fmt.Errorf("unsupported input %q: want .csv, .xlsx or .dxf", path)
	}
}

func readPasted(src pasteSource, stdin io.Reader) (importer.ImportResult, error) {
	var data []byte
	var err error
	if src.Path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src.Path)
	}
	if err != nil {
		return importer.ImportResult{}, fmt.Errorf("read pasted list: %w", err)
	}
	return importer.ParsePasted(string(data)), nil
}

// mergeGroups appends the pieces of each incoming group to the existing
// group of the same thickness, or adds the group when it is new.
func mergeGroups(groups, incoming []model.GroupInput) []model.GroupInput {
	for _, in := range incoming {
		merged := false
		for i := range groups {
			if groups[i].Thickness == in.Thickness {
				groups[i].Pieces = append(groups[i].Pieces, in.Pieces...)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, in)
		}
	}
	return groups
}
