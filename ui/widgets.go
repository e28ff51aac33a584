package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws descriptor-driven panels with one Theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section title and returns the next line's y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the next line's y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, valueColor rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, valueColor)
	return y + r.Theme.LineHeight
}

// barStyle selects between a left-anchored and a zero-centred bar.
type barStyle int

const (
	barFromMin barStyle = iota
	barFromCenter
)

// drawBar draws label, track, fill and numeric value for one bar row.
func (r *Renderer) drawBar(x, y int32, label string, value float32, rng FieldRange, width int32, style barStyle, valueColor rl.Color) int32 {
	th := r.Theme
	trackX := x + th.LabelWidth
	trackW := width - th.LabelWidth - 50
	top := y + 2

	rl.DrawText(label+":", x, y, th.FontSize, th.LabelColor)
	rl.DrawRectangle(trackX, top, trackW, th.BarHeight, th.BarBg)

	t := normalize(value, rng)
	format := "%.2f"
	switch style {
	case barFromMin:
		rl.DrawRectangle(trackX, top, int32(float32(trackW)*t), th.BarHeight, th.BarFill)
	case barFromCenter:
		format = "%+.2f"
		mid := trackX + trackW/2
		rl.DrawLine(mid, top, mid, top+th.BarHeight, th.PanelBorder)
		half := float32(trackW / 2)
		if s := t*2 - 1; s < 0 {
			w := int32(half * -s)
			rl.DrawRectangle(mid-w, top, w, th.BarHeight, th.BarFillNegative)
		} else {
			rl.DrawRectangle(mid, top, int32(half*s), th.BarHeight, th.BarFillPositive)
		}
	}

	rl.DrawText(fmt.Sprintf(format, value), trackX+trackW+5, y, th.FontSize, valueColor)
	return y + th.LineHeight + 2
}

// DrawBar draws a bar filled from rng.Min toward value.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	return r.drawBar(x, y, label, value, rng, width, barFromMin, r.Theme.ValueColor)
}

// DrawCenteredBar draws a bar filled from the middle of rng toward value.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	return r.drawBar(x, y, label, value, rng, width, barFromCenter, r.Theme.ValueColor)
}

// DrawField renders one descriptor row.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	color := r.Theme.ValueColor
	if fd.Alert != nil && fd.Alert(data) {
		color = r.Theme.AlertColor
	}

	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, FieldText(fd, data), color)
	case WidgetBar:
		return r.drawBar(x, y, fd.Label, fieldValue(fd, data), fd.Range, width, barFromMin, color)
	case WidgetCenteredBar:
		return r.drawBar(x, y, fd.Label, fieldValue(fd, data), fd.Range, width, barFromCenter, color)
	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section header followed by its visible fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			y = r.DrawField(x, y, fd, data, width)
		}
	}
	return y + 4
}

// FieldText formats a text field's value.
func FieldText(fd FieldDescriptor, data any) string {
	switch {
	case fd.TextGetter != nil:
		return fd.TextGetter(data)
	case fd.Getter != nil:
		return fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return ""
}

func fieldValue(fd FieldDescriptor, data any) float32 {
	if fd.Getter == nil {
		return 0
	}
	return fd.Getter(data)
}

// normalize maps value onto [0, 1] over rng, clamped.
func normalize(value float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	return min(max((value-rng.Min)/span, 0), 1)
}
