package ui

import (
	"fmt"

	"github.com/pthm-cable/sph/telemetry"
)

// StatsPanel renders the latest telemetry window.
type StatsPanel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewStatsPanel creates a stats panel anchored at (x, y).
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		sections: FluidSections(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel for the given window stats.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) {
	r := s.renderer
	height := s.height(stats)
	r.DrawPanel(s.x, s.y, s.width, height)

	y := s.y + r.Theme.Padding
	for _, sd := range s.sections {
		y = r.DrawSection(s.x+r.Theme.Padding, y, sd, stats, s.width-2*r.Theme.Padding)
	}
}

func (s *StatsPanel) height(stats telemetry.WindowStats) int32 {
	th := s.renderer.Theme
	h := 2 * th.Padding
	for _, sd := range s.sections {
		if sd.Visible != nil && !sd.Visible(stats) {
			continue
		}
		h += th.LineHeight + 4
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(stats) {
				continue
			}
			h += th.LineHeight
			if fd.Widget == WidgetBar || fd.Widget == WidgetCenteredBar {
				h += 2
			}
		}
	}
	return h
}

// densityErrAlert is the relative rest-density error above which the panel flags the value.
const densityErrAlert = 0.2

func absf64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func ws(data any) telemetry.WindowStats {
	s, _ := data.(telemetry.WindowStats)
	return s
}

// FluidSections describes the stats panel layout for telemetry.WindowStats.
func FluidSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "density",
			Title: "Density",
			Fields: []FieldDescriptor{
				{ID: "density_mean", Label: "Mean", Widget: WidgetText, Format: "%.1f",
					Getter: func(d any) float32 { return float32(ws(d).DensityMean) }},
				{ID: "density_spread", Label: "p10/p50/p90", Widget: WidgetText,
					TextGetter: func(d any) string {
						s := ws(d)
						return fmt.Sprintf("%.0f / %.0f / %.0f", s.DensityP10, s.DensityP50, s.DensityP90)
					}},
				{ID: "density_err", Label: "Rest error", Widget: WidgetCenteredBar, Range: FieldRange{Min: -0.5, Max: 0.5},
					Getter: func(d any) float32 { return float32(ws(d).DensityErr) },
					Alert:  func(d any) bool { return absf64(ws(d).DensityErr) > densityErrAlert }},
			},
		},
		{
			ID:    "motion",
			Title: "Motion",
			Fields: []FieldDescriptor{
				{ID: "kinetic_energy", Label: "Kinetic", Widget: WidgetText, Format: "%.3g",
					Getter: func(d any) float32 { return float32(ws(d).KineticEnergy) }},
				{ID: "max_speed", Label: "Max speed", Widget: WidgetText, Format: "%.1f",
					Getter: func(d any) float32 { return float32(ws(d).MaxSpeed) }},
			},
		},
		{
			ID:    "store",
			Title: "Store",
			Fields: []FieldDescriptor{
				{ID: "fill", Label: "Fill", Widget: WidgetBar, Range: DefaultRange(),
					Getter: func(d any) float32 {
						s := ws(d)
						if s.Capacity == 0 {
							return 0
						}
						return float32(s.Particles) / float32(s.Capacity)
					}},
				{ID: "non_finite", Label: "Non-finite", Widget: WidgetText, Format: "%.0f",
					Visible: func(d any) bool { return ws(d).NonFinite > 0 },
					Getter:  func(d any) float32 { return float32(ws(d).NonFinite) },
					Alert:   func(any) bool { return true }},
			},
		},
	}
}
