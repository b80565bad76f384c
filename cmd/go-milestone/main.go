package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/display"
	"github.com/tartampluch/go-milestone/internal/engine"
	"github.com/tartampluch/go-milestone/internal/metrics"
	"github.com/tartampluch/go-milestone/internal/server"
	"github.com/tartampluch/go-milestone/internal/ui"
	"github.com/tartampluch/go-milestone/internal/worker"
	"github.com/zalando/go-keyring"
	"golang.org/x/sync/errgroup"
)

// options holds the parsed command line.
type options struct {
	showVersion bool
	debug       bool
	age         string
	birthday    string
	serve       bool
	port        string
	vcard       string
	vcardUser   string
	interval    int
	reminder    string
}

// main delegates to runMain so that deferred calls (closing the log file)
// run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	opts := parseFlags(flag.CommandLine, os.Args[1:])

	if opts.showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	// Print mode owns stdout; it skips the JSON log setup.
	if opts.birthday != "" {
		if err := runPrint(os.Stdout, opts, engine.RealClock{}); err != nil {
			return config.ExitCodeError
		}
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	run := runGUI
	if opts.serve {
		run = runServe
	}
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// parseFlags reads the command line into options. Invalid values never fail
// here; they fall back to defaults where they are used.
func parseFlags(fs *flag.FlagSet, args []string) options {
	var o options
	fs.BoolVar(&o.showVersion, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&o.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.StringVar(&o.age, config.FlagAge, "", config.FlagDescAge)
	fs.StringVar(&o.birthday, config.FlagBirthday, "", config.FlagDescBirthday)
	fs.BoolVar(&o.serve, config.FlagServe, false, config.FlagDescServe)
	fs.StringVar(&o.port, config.FlagPort, "", config.FlagDescPort)
	fs.StringVar(&o.vcard, config.FlagVCard, "", config.FlagDescVCard)
	fs.StringVar(&o.vcardUser, config.FlagVCardUser, "", config.FlagDescVCardUser)
	fs.IntVar(&o.interval, config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInterval)
	fs.StringVar(&o.reminder, config.FlagReminder, "", config.FlagDescReminder)
	_ = fs.Parse(args) // flag.ExitOnError handles bad input on the default set
	return o
}

// runPrint writes the three lines for -birthday and returns. An invalid
// birth date prints the placeholder lines, like an empty field would.
func runPrint(w io.Writer, opts options, clock engine.Clock) error {
	age := engine.ParseAgeYears(opts.age)
	printer := display.NewPrinter(config.DefaultLanguage)

	var shown *engine.Result
	if res, ok := engine.Compute(opts.birthday, age, engine.Today(clock)); ok {
		shown = &res
	}
	lines := printer.Lines(age, shown)

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n", printer.Title(age), lines.Milestone, lines.Breakdown, lines.TotalDays)
	return err
}

// runServe runs the HTTP surface and, when an address book is configured,
// the feed worker until ctx is cancelled.
func runServe(ctx context.Context, opts options) error {
	port := opts.port
	if port == "" {
		port = config.DefaultPort
	}
	if err := validatePort(port); err != nil {
		return err
	}

	srv, wk := wire(port, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	if wk != nil {
		g.Go(func() error { return wk.Run(gctx) })
	}
	return g.Wait()
}

// runGUI opens the widget window. The HTTP surface runs alongside it on the
// preferred port; a bind failure is logged but does not close the window.
func runGUI(ctx context.Context, opts options) error {
	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	port := opts.port
	if port == "" {
		port = a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	}
	// An explicit -age is remembered for the next launch.
	if opts.age == "" {
		opts.age = strconv.Itoa(a.Preferences().IntWithFallback(config.PrefAgeYears, config.DefaultAgeYears))
	} else {
		a.Preferences().SetInt(config.PrefAgeYears, engine.ParseAgeYears(opts.age))
	}

	srv, wk := wire(port, opts)
	gui := ui.NewMilestoneApp(a, srv.Printer, srv.Metrics, engine.ParseAgeYears(opts.age))

	go func() {
		if err := validatePort(port); err != nil {
			slog.Error(config.ErrServerStartup, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
			return
		}
		if err := srv.Start(ctx); err != nil {
			slog.Error(config.ErrServerStartup, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
		}
	}()
	if wk != nil {
		go func() { _ = wk.Run(ctx) }()
	}

	// Quit the UI when the signal context is cancelled.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	gui.Run()
	return nil
}

// wire builds the shared printer, metrics, server and optional feed worker.
func wire(port string, opts options) (*server.MilestoneServer, *worker.Worker) {
	printer := display.NewPrinter(config.DefaultLanguage)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	srv := server.NewMilestoneServer(port, printer, m, reg)
	if opts.vcard == "" {
		return srv, nil
	}
	srv.FeedEnabled = true

	gen := &engine.Generator{
		Clock:         engine.RealClock{},
		Fetcher:       engine.NewHTTPFetcher(),
		FormatSummary: printer.EventSummary,
	}
	wk := &worker.Worker{
		Syncer:    gen,
		Config:    syncConfig(opts, keyring.Get),
		Interval:  time.Duration(opts.interval) * time.Minute,
		Publisher: srv,
		Metrics:   m,
	}
	return srv, wk
}

// syncConfig maps flags to the engine configuration. The remote password is
// looked up with getPassword (the OS keyring in production).
func syncConfig(opts options, getPassword func(service, user string) (string, error)) engine.SyncConfig {
	cfg := engine.SyncConfig{
		Mode:            config.SourceModeLocal,
		LocalPath:       opts.vcard,
		AgeYears:        engine.ParseAgeYears(opts.age),
		ReminderTrigger: opts.reminder,
	}

	lower := strings.ToLower(opts.vcard)
	if strings.HasPrefix(lower, config.SchemeHTTP+"://") || strings.HasPrefix(lower, config.SchemeHTTPS+"://") {
		cfg.Mode = config.SourceModeWeb
		cfg.LocalPath = ""
		cfg.WebURL = opts.vcard
		cfg.WebUser = opts.vcardUser
	}

	if cfg.WebUser != "" {
		if p, err := getPassword(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.ErrKeyring,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompMain)
		}
	}
	return cfg
}

// validatePort checks that port is a number in the TCP range.
func validatePort(port string) error {
	if port == "" {
		return errors.New(config.ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPortNumber, err)
	}
	if n < config.MinPort || n > config.MaxPort {
		return errors.New(config.ErrPortRange)
	}
	return nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuildDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: JSON to stdout and to a
// log file in the user's cache directory when one can be opened.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
