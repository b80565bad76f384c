// Package display renders the milestone timer's text lines from engine
// results using the embedded go-i18n message catalog.
package display

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Lines are the three result lines shown under the date field.
type Lines struct {
	Milestone string
	Breakdown string
	TotalDays string
}

// Printer localizes display strings. A nil localizer falls back to the
// config.Fallback* formats.
type Printer struct {
	localizer *i18n.Localizer
}

// NewPrinter loads the embedded locale files and selects lang.
// Load failures are logged and leave the printer on its fallbacks.
func NewPrinter(lang string) *Printer {
	bundle := i18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return &Printer{}
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Printer{localizer: i18n.NewLocalizer(bundle, lang)}
}

// Title is the heading, e.g. "🍀37🍀 タイマー".
func (p *Printer) Title(age int) string {
	return p.msg(config.TKeyTitle, map[string]any{"Age": age},
		fmt.Sprintf(config.FallbackTitle, age))
}

// Prompt is the helper text under the date field.
func (p *Printer) Prompt() string {
	return p.msg(config.TKeyPrompt, nil, config.FallbackPrompt)
}

// Footer is the copyright line.
func (p *Printer) Footer() string {
	return p.msg(config.TKeyFooter,
		map[string]any{"Year": config.CopyrightYear, "Holder": config.CopyrightHolder},
		fmt.Sprintf(config.FallbackFooter, config.CopyrightYear, config.CopyrightHolder))
}

// Text returns a plain message without template data.
func (p *Printer) Text(key string) string {
	return p.msg(key, nil, key)
}

// Lines renders the three result lines. A nil res means the birth date is
// empty or invalid and yields the placeholder prompts. Past durations are
// negated so that elapsed time reads as positive magnitudes.
func (p *Printer) Lines(age int, res *engine.Result) Lines {
	if res == nil {
		return Lines{
			Milestone: p.msg(config.TKeyMilestonePending, map[string]any{"Age": age},
				fmt.Sprintf(config.FallbackMilestonePending, age)),
			Breakdown: p.msg(config.TKeyBreakdownPending, map[string]any{"Age": age},
				fmt.Sprintf(config.FallbackBreakdownPending, age)),
			TotalDays: p.msg(config.TKeyTotalDaysPending, map[string]any{"Age": age},
				fmt.Sprintf(config.FallbackTotalDaysPending, age)),
		}
	}

	m := res.Milestone
	lines := Lines{
		Milestone: p.msg(config.TKeyMilestoneResult,
			map[string]any{
				"Age":   age,
				"Year":  fmt.Sprintf("%04d", m.Year()),
				"Month": fmt.Sprintf("%02d", int(m.Month())),
				"Day":   fmt.Sprintf("%02d", m.Day()),
			},
			fmt.Sprintf(config.FallbackMilestoneResult, age, m.Year(), int(m.Month()), m.Day())),
	}

	d := res.Duration
	breakdownKey, breakdownFmt := config.TKeyBreakdownRemaining, config.FallbackBreakdownRemaining
	totalKey, totalFmt := config.TKeyTotalDaysRemaining, config.FallbackTotalDaysRemaining
	if d.Past {
		d = negate(d)
		breakdownKey, breakdownFmt = config.TKeyBreakdownElapsed, config.FallbackBreakdownElapsed
		totalKey, totalFmt = config.TKeyTotalDaysElapsed, config.FallbackTotalDaysElapsed
	}

	lines.Breakdown = p.msg(breakdownKey,
		map[string]any{"Age": age, "Years": d.Years, "Months": d.Months, "Days": d.Days},
		fmt.Sprintf(breakdownFmt, age, d.Years, d.Months, d.Days))
	lines.TotalDays = p.msg(totalKey,
		map[string]any{"Age": age, "Days": d.TotalDays},
		fmt.Sprintf(totalFmt, age, d.TotalDays))
	return lines
}

// EventSummary titles a contact's milestone event in the feed.
func (p *Printer) EventSummary(name string, r engine.Result) string {
	return p.msg(config.TKeyEvtSummary,
		map[string]any{"Name": name, "Age": r.AgeYears},
		fmt.Sprintf(config.FallbackSummary, name, r.AgeYears))
}

func negate(d engine.Duration) engine.Duration {
	return engine.Duration{
		Past:      d.Past,
		Years:     -d.Years,
		Months:    -d.Months,
		Days:      -d.Days,
		TotalDays: -d.TotalDays,
	}
}

func (p *Printer) msg(key string, data map[string]any, fallback string) string {
	if p.localizer == nil {
		return fallback
	}
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}
