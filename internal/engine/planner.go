package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/cutplan/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Planner runs the packer for every thickness group of a job.
type Planner struct {
	Settings model.CutSettings
}

func New(settings model.CutSettings) *Planner {
	return &Planner{Settings: settings}
}

// PlanJob plans a job with the job's own settings.
func PlanJob(ctx context.Context, job model.Job) (model.Plan, error) {
	plan, err := New(job.Settings).Plan(ctx, job.Groups)
	plan.Name = job.Name
	return plan, err
}

// Plan validates the groups, then packs each one independently. Groups share
// no state, so they run concurrently up to Settings.Workers at a time.
//
// Invalid input is rejected before any packing and returns an empty plan.
// A group that cannot be packed does not stop the others: the plan holds
// every group, and the returned error joins the failures.
func (p *Planner) Plan(ctx context.Context, groups []model.GroupInput) (model.Plan, error) {
	plan := model.Plan{
		ID:       uuid.New().String(),
		Settings: p.Settings,
	}

	job := model.Job{Settings: p.Settings, Groups: groups}
	if err := job.Validate(); err != nil {
		return plan, err
	}

	workers := p.Settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	plan.Groups = make([]model.GroupPlan, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range groups {
		g.Go(func() error {
			plan.Groups[i] = p.planGroup(gctx, in)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, gp := range plan.Groups {
		if gp.Err != nil {
			errs = append(errs, fmt.Errorf("group %s: %w", gp.Group, gp.Err))
		}
	}
	return plan, errors.Join(errs...)
}

// planGroup packs one thickness group and summarises its waste.
func (p *Planner) planGroup(ctx context.Context, in model.GroupInput) model.GroupPlan {
	start := time.Now()
	gp := model.GroupPlan{
		Group:     in.Key(),
		Thickness: in.Thickness,
		Sheet:     in.Sheet,
		Color:     in.DisplayColor(),
		Specs:     in.Expand(),
	}

	padded := make([]model.PaddedRectangle, len(gp.Specs))
	for i, s := range gp.Specs {
		padded[i] = s.Pad(p.Settings.Kerf, i)
	}

	alloc := NewSheetAllocator(in.Sheet.Width, in.Sheet.Height, p.Settings)
	result, err := alloc.Pack(ctx, padded)
	if err != nil {
		gp.Err = err
		gp.Error = err.Error()
		log.Warn().Err(err).Str("group", gp.Group).Int("pieces", len(padded)).Msg("Group packing failed")
		return gp
	}

	result.Group = gp.Group
	result.Kerf = p.Settings.Kerf
	summary := Summarize(result, in.Sheet.Width, in.Sheet.Height)
	gp.Result = &result
	gp.Summary = &summary

	log.Debug().
		Str("group", gp.Group).
		Int("pieces", len(padded)).
		Int("sheets", result.SheetCount).
		Float64("avg_waste_pct", summary.AvgWastePct).
		Dur("duration", time.Since(start)).
		Msg("Group packed")
	return gp
}
