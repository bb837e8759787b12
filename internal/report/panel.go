package report

import "fmt"

type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// PanelKey names one comparison panel, e.g. "b-2".
type PanelKey struct {
	Side Side
	Task int
}

func (k PanelKey) String() string {
	return fmt.Sprintf("%s-%d", k.Side, k.Task)
}

// PanelState is the pattern and run shown in a panel. Transitions return a
// new value; client.js follows the same rules.
type PanelState struct {
	Pattern  string
	RunIndex int
}

// Select switches to pattern and resets to its first run.
func (s PanelState) Select(pattern string) PanelState {
	return PanelState{Pattern: pattern}
}

// Advance moves delta runs, wrapping within [0, runCount).
func (s PanelState) Advance(delta, runCount int) PanelState {
	if runCount < 1 {
		return s
	}
	i := ((s.RunIndex+delta)%runCount + runCount) % runCount
	return PanelState{Pattern: s.Pattern, RunIndex: i}
}

type Panels map[PanelKey]PanelState

// With returns a copy of p with key set to s.
func (p Panels) With(key PanelKey, s PanelState) Panels {
	out := make(Panels, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = s
	return out
}

// InitialPanels selects the first tone pattern in panel A and the second, or
// the first when there is only one, in panel B of every comparison section.
func InitialPanels(groups Groups) Panels {
	panels := Panels{}
	for i, g := range groups {
		if SelectView(g.Type()) != ViewComparison || len(g.Records) == 0 {
			continue
		}
		b := g.Records[0].TonePattern
		if len(g.Records) > 1 {
			b = g.Records[1].TonePattern
		}
		panels = panels.With(PanelKey{SideA, i}, PanelState{}.Select(g.Records[0].TonePattern))
		panels = panels.With(PanelKey{SideB, i}, PanelState{}.Select(b))
	}
	return panels
}
