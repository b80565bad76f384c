package ui

import (
	"log/slog"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/display"
	"github.com/tartampluch/go-milestone/internal/engine"
	"github.com/tartampluch/go-milestone/internal/metrics"
)

// MilestoneApp is the desktop rendition of the milestone timer page.
type MilestoneApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Printer     *display.Printer
	Metrics     *metrics.Metrics
	Clock       engine.Clock // Injected clock for testability

	AgeYears int

	// result holds the latest milestone and duration as one value; nil
	// means the birth date is empty or invalid.
	result atomic.Pointer[engine.Result]

	Entry          *DateEntry
	TitleLabel     *widget.Label
	MilestoneLabel *widget.Label
	BreakdownLabel *widget.Label
	TotalDaysLabel *widget.Label
}

// NewMilestoneApp constructs the application and wires dependencies.
func NewMilestoneApp(a fyne.App, printer *display.Printer, m *metrics.Metrics, ageYears int) *MilestoneApp {
	return &MilestoneApp{
		App:         a,
		Preferences: a.Preferences(),
		Printer:     printer,
		Metrics:     m,
		Clock:       engine.RealClock{},
		AgeYears:    ageYears,
	}
}

// Run builds the main window and blocks on the Fyne event loop.
func (app *MilestoneApp) Run() {
	app.BuildWindow().ShowAndRun()
}

// BuildWindow lays out title, date field, prompt, the three result lines
// and the footer.
func (app *MilestoneApp) BuildWindow() fyne.Window {
	w := app.App.NewWindow(app.Printer.Title(app.AgeYears))
	app.Window = w

	app.TitleLabel = widget.NewLabelWithStyle(app.Printer.Title(app.AgeYears),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	app.TitleLabel.SizeName = theme.SizeNameHeadingText

	app.Entry = NewDateEntry()
	app.Entry.OnChanged = app.OnBirthdayChanged

	prompt := widget.NewLabel(app.Printer.Prompt())
	prompt.Importance = widget.LowImportance

	app.MilestoneLabel = newLineLabel()
	app.BreakdownLabel = newLineLabel()
	app.TotalDaysLabel = newLineLabel()
	app.render()

	footer := widget.NewLabelWithStyle(app.Printer.Footer(), fyne.TextAlignCenter, fyne.TextStyle{})

	w.SetContent(container.NewVBox(
		app.TitleLabel,
		app.Entry,
		prompt,
		widget.NewSeparator(),
		app.MilestoneLabel,
		app.BreakdownLabel,
		app.TotalDaysLabel,
		widget.NewSeparator(),
		footer,
	))
	w.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))
	return w
}

// OnBirthdayChanged recomputes the milestone for the new field text.
// Today is read once per call.
func (app *MilestoneApp) OnBirthdayChanged(text string) {
	res, ok := engine.Compute(text, app.AgeYears, engine.Today(app.Clock))
	app.Metrics.ObserveComputation(config.SurfaceUI, ok)

	if !ok {
		app.result.Store(nil)
		slog.Debug(config.MsgInputCleared, config.LogKeyComponent, config.CompUI)
	} else {
		app.result.Store(&res)
		slog.Debug(config.MsgRecomputed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyMilestone, res.Milestone.String(),
			config.LogKeyPast, res.Duration.Past,
			config.LogKeyTotalDays, res.Duration.TotalDays,
		)
	}
	app.render()
}

// Result returns the current milestone and duration, if any.
func (app *MilestoneApp) Result() (engine.Result, bool) {
	if res := app.result.Load(); res != nil {
		return *res, true
	}
	return engine.Result{}, false
}

// render pushes the current result into the three labels.
func (app *MilestoneApp) render() {
	if app.MilestoneLabel == nil {
		return
	}
	lines := app.Printer.Lines(app.AgeYears, app.result.Load())
	app.MilestoneLabel.SetText(lines.Milestone)
	app.BreakdownLabel.SetText(lines.Breakdown)
	app.TotalDaysLabel.SetText(lines.TotalDays)
}

func newLineLabel() *widget.Label {
	l := widget.NewLabel("")
	l.Alignment = fyne.TextAlignCenter
	l.Wrapping = fyne.TextWrapWord
	return l
}
