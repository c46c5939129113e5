package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SetupTheme applies the Rose Pine Moon palette to every tview primitive.
func SetupTheme() {
	tview.Styles = tview.Theme{
		PrimitiveBackgroundColor:    tcell.NewRGBColor(35, 33, 54),    // base
		ContrastBackgroundColor:     tcell.NewRGBColor(42, 39, 63),    // surface
		MoreContrastBackgroundColor: tcell.NewRGBColor(57, 53, 82),    // overlay
		BorderColor:                 tcell.NewRGBColor(110, 106, 134), // muted
		TitleColor:                  tcell.NewRGBColor(235, 188, 186), // rose
		GraphicsColor:               tcell.NewRGBColor(156, 207, 216), // foam
		PrimaryTextColor:            tcell.NewRGBColor(224, 222, 244), // text
		SecondaryTextColor:          tcell.NewRGBColor(144, 140, 170), // subtle
		TertiaryTextColor:           tcell.NewRGBColor(110, 106, 134), // muted
		InverseTextColor:            tcell.NewRGBColor(35, 33, 54),    // base
		ContrastSecondaryTextColor:  tcell.NewRGBColor(224, 222, 244), // text
	}
}
