package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-milestone/internal/config"
)

// SyncConfig contains all parameters required to build the contacts feed.
type SyncConfig struct {
	Mode            string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath       string // Path to the .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string // HTTP Basic Auth Username
	WebPass         string // HTTP Basic Auth Password
	AgeYears        int    // Milestone age computed for every contact
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D")
}

// SyncResult is the outcome of one contacts sync.
type SyncResult struct {
	ICS      []byte
	Contacts []ContactMilestone
	Skipped  int
}

// Generator reads an address book and publishes every contact's milestone
// birthday as an iCalendar feed.
type Generator struct {
	Clock   Clock
	Fetcher VCardFetcher

	// FormatSummary lets the display layer inject localized event titles.
	FormatSummary func(name string, r Result) string
}

// RunSync executes the fetch, parse and encode pipeline.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) (SyncResult, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
		config.LogKeyAge, cfg.AgeYears,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return SyncResult{}, ctx.Err()
		}
		return SyncResult{}, fmt.Errorf("%s: %w", config.ErrVCardSource, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return SyncResult{}, err
	}

	res, err := g.buildFeed(ctx, reader, cfg)
	if err == nil {
		log.Debug(config.MsgSyncFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return res, err
}

// acquireStream opens the configured address-book source.
func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// buildFeed decodes the vCard stream and computes one milestone per contact.
func (g *Generator) buildFeed(ctx context.Context, r io.Reader, cfg SyncConfig) (SyncResult, error) {
	now := g.Clock.Now()
	today := FromTime(now)

	decoder := vcard.NewDecoder(r)
	var (
		res       SyncResult
		events    []MilestoneEvent
		processed int
	)

	for {
		if err := ctx.Err(); err != nil {
			return SyncResult{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep going: one broken card must not hide the others.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			res.Skipped++
			continue
		}
		processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		// A milestone needs the birth year, so --MM-DD values are skipped.
		result, ok := Compute(bday.Value, cfg.AgeYears, today)
		if !ok {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			res.Skipped++
			continue
		}

		name := contactName(card)
		entry := ContactMilestone{
			UID:    EventUID(name, result.Birth, cfg.AgeYears),
			Name:   name,
			Result: result,
		}
		res.Contacts = append(res.Contacts, entry)

		summary := fmt.Sprintf(config.FallbackSummary, name, cfg.AgeYears)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(name, result)
		}
		events = append(events, MilestoneEvent{
			UID:     entry.UID,
			Summary: summary,
			Date:    result.Milestone,
			Trigger: cfg.ReminderTrigger,
		})
	}

	ics, err := EncodeCalendar(events, now)
	if err != nil {
		return SyncResult{}, err
	}
	res.ICS = ics

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, processed),
			slog.Int(config.LogKeyFound, len(res.Contacts)),
			slog.Int(config.LogKeySkipped, res.Skipped),
		),
	)
	return res, nil
}

// contactName picks FN, then N, then a fallback.
func contactName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}
