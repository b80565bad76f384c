package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/display"
	"github.com/tartampluch/go-milestone/internal/engine"
	"github.com/tartampluch/go-milestone/internal/metrics"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// cacheItem stores the rendered contacts feed and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// pageData feeds templates/page.html.
type pageData struct {
	Title         string
	Prompt        string
	Submit        string
	Action        string
	Param         string
	Birthday      string
	Lines         display.Lines
	CalendarURL   string
	CalendarLabel string
	Footer        string
}

// MilestoneServer serves the milestone page, its iCalendar export and the
// contacts milestone feed on localhost.
type MilestoneServer struct {
	// cache uses atomic.Pointer for lock-free reads: the feed is read on
	// every client poll but replaced only once per sync.
	cache atomic.Pointer[cacheItem]

	Port     string
	Clock    engine.Clock
	Printer  *display.Printer
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// FeedEnabled is set when an address book is configured; without it
	// /contacts.ics answers 404 instead of 503.
	FeedEnabled bool
}

// NewMilestoneServer creates a server with a real clock and no feed.
func NewMilestoneServer(port string, printer *display.Printer, m *metrics.Metrics, gatherer prometheus.Gatherer) *MilestoneServer {
	return &MilestoneServer{
		Port:     port,
		Clock:    engine.RealClock{},
		Printer:  printer,
		Metrics:  m,
		Gatherer: gatherer,
	}
}

// Routes builds the chi router.
func (s *MilestoneServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})

	getHead := func(pattern string, h http.HandlerFunc) {
		r.Get(pattern, h)
		r.Head(pattern, h)
	}
	getHead(config.RouteRoot, s.handlePage)
	getHead(config.RouteContactsICS, s.handleContactsCalendar)
	getHead(config.RoutePage, s.handlePage)
	getHead(config.RouteMilestoneICS, s.handleMilestoneCalendar)

	if s.Gatherer != nil {
		r.Method(http.MethodGet, config.RouteMetrics, promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *MilestoneServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Routes(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the contacts feed.
func (s *MilestoneServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// Readers see either the old or the new complete item, never a mix.
	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// compute runs the calculator for one request and counts the outcome.
func (s *MilestoneServer) compute(r *http.Request) (int, string, *engine.Result) {
	age := engine.ParseAgeYears(chi.URLParam(r, config.ParamYearsOld))
	birthday := r.URL.Query().Get(config.QueryBirthday)

	res, ok := engine.Compute(birthday, age, engine.Today(s.Clock))
	if birthday != "" {
		s.Metrics.ObserveComputation(config.SurfaceHTTP, ok)
	}
	if !ok {
		return age, birthday, nil
	}
	return age, birthday, &res
}

// handlePage renders the timer page for /{yearsOld}?birthday=YYYY-MM-DD.
func (s *MilestoneServer) handlePage(w http.ResponseWriter, r *http.Request) {
	age, birthday, res := s.compute(r)

	data := pageData{
		Title:    s.Printer.Title(age),
		Prompt:   s.Printer.Prompt(),
		Submit:   s.Printer.Text(config.TKeyBtnCalculate),
		Action:   fmt.Sprintf("/%d", age),
		Param:    config.QueryBirthday,
		Birthday: birthday,
		Lines:    s.Printer.Lines(age, res),
		Footer:   s.Printer.Footer(),
	}
	if res != nil {
		data.Birthday = res.Birth.String()
		data.CalendarURL = fmt.Sprintf(config.FormatMilestoneICS, age, config.QueryBirthday, url.QueryEscape(data.Birthday))
		data.CalendarLabel = s.Printer.Text(config.TKeyLinkCalendar)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		slog.Error(config.ErrTemplate,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	// The page depends on today's date; never let a cache serve yesterday's count.
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	s.write(w, r, buf.Bytes())
}

// handleMilestoneCalendar exports the milestone as a single all-day event.
func (s *MilestoneServer) handleMilestoneCalendar(w http.ResponseWriter, r *http.Request) {
	age, _, res := s.compute(r)
	if res == nil {
		http.Error(w, s.Printer.Text(config.TKeyErrInvalidBirthday), http.StatusBadRequest)
		return
	}

	summary := s.Printer.Lines(age, res).Milestone
	ics, err := engine.EncodeCalendar([]engine.MilestoneEvent{{
		UID:     engine.EventUID("", res.Birth, age),
		Summary: summary,
		Date:    res.Milestone,
	}}, s.Clock.Now())
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	s.write(w, r, ics)
}

// handleContactsCalendar serves the cached contacts feed with HTTP caching support.
func (s *MilestoneServer) handleContactsCalendar(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()
	if item == nil {
		if !s.FeedEnabled {
			http.Error(w, config.HTTPMsgNoFeed, http.StatusNotFound)
			return
		}
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		clientTime, err1 := time.Parse(http.TimeFormat, since)
		serverTime, err2 := time.Parse(http.TimeFormat, item.lastModified)
		if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	s.write(w, r, item.data)
}

// write sends body on GET and only headers on HEAD.
func (s *MilestoneServer) write(w http.ResponseWriter, r *http.Request, body []byte) {
	if r.Method != http.MethodGet {
		return
	}
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
