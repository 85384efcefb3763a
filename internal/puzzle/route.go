package puzzle

import "adventcalendar/internal/models"

// Route walks the player through ordered instructions. Arrival is only
// accepted on the last step.
type Route struct {
	steps    []models.RouteStep
	current  int
	arrived  bool
	attempts int
}

type RouteState struct {
	Step    int              `json:"step"`
	Total   int              `json:"total"`
	Current models.RouteStep `json:"current"`
	Solved  bool             `json:"solved"`
}

func NewRoute(steps []models.RouteStep) *Route {
	return &Route{steps: steps}
}

func (r *Route) Kind() models.PuzzleKind { return models.KindRoute }
func (r *Route) Solved() bool            { return r.arrived }
func (r *Route) Attempts() int           { return r.attempts }

// Submit handles "next", "prev" and "arrive"
func (r *Route) Submit(in Input) Outcome {
	if r.arrived {
		return Outcome{Accepted: true}
	}
	switch in.Action {
	case "next":
		if r.current < len(r.steps)-1 {
			r.current++
			return Outcome{Moved: true}
		}
	case "prev":
		if r.current > 0 {
			r.current--
			return Outcome{Moved: true}
		}
	case "arrive":
		if r.current == len(r.steps)-1 {
			r.arrived = true
			return Outcome{Accepted: true, Moved: true}
		}
		r.attempts++
	}
	return Outcome{}
}

func (r *Route) State() any {
	return RouteState{
		Step:    r.current + 1,
		Total:   len(r.steps),
		Current: r.steps[r.current],
		Solved:  r.arrived,
	}
}
