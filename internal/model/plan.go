package model

// GroupPlan is the outcome for one thickness group. Result and Summary are
// nil when the group failed; Error then holds the reason.
type GroupPlan struct {
	Group     string          `json:"group"`
	Thickness int             `json:"thickness"`
	Sheet     StockSheet      `json:"sheet"`
	Color     string          `json:"color"`
	Specs     []RectangleSpec `json:"specs"`
	Result    *PackingResult  `json:"result,omitempty"`
	Summary   *WasteSummary   `json:"summary,omitempty"`
	Err       error           `json:"-"`
	Error     string          `json:"error,omitempty"`
}

// OK reports whether the group packed successfully.
func (g GroupPlan) OK() bool {
	return g.Err == nil && g.Result != nil
}

// Spec looks up a spec by id.
func (g GroupPlan) Spec(id string) (RectangleSpec, bool) {
	for _, s := range g.Specs {
		if s.ID == id {
			return s, true
		}
	}
	return RectangleSpec{}, false
}

// Plan is a full cutting plan across every thickness group of a job.
type Plan struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Settings CutSettings `json:"settings"`
	Groups   []GroupPlan `json:"groups"`
}

// Succeeded returns the groups that packed.
func (p Plan) Succeeded() []GroupPlan {
	var out []GroupPlan
	for _, g := range p.Groups {
		if g.OK() {
			out = append(out, g)
		}
	}
	return out
}

// TotalSheets sums sheets over successful groups.
func (p Plan) TotalSheets() int {
	n := 0
	for _, g := range p.Succeeded() {
		n += g.Result.SheetCount
	}
	return n
}

// TotalPieces sums placed pieces over successful groups.
func (p Plan) TotalPieces() int {
	n := 0
	for _, g := range p.Succeeded() {
		n += len(g.Result.Placements)
	}
	return n
}
