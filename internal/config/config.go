package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Milestone/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Milestone"
	AppID             = "com.github.tartampluch.go-milestone"
	KeyringService    = "com.github.tartampluch.go-milestone"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagAge       = "age"
	FlagBirthday  = "birthday"
	FlagServe     = "serve"
	FlagPort      = "port"
	FlagVCard     = "vcard"
	FlagVCardUser = "vcard-user"
	FlagInterval  = "interval"
	FlagReminder  = "reminder"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescAge       = "Milestone age in years (falls back to 37 when invalid)"
	FlagDescBirthday  = "Birth date (YYYY-MM-DD): print the milestone lines and exit"
	FlagDescServe     = "Run the HTTP page and contacts feed without a window"
	FlagDescPort      = "Local HTTP port"
	FlagDescVCard     = "Address book to publish as a milestone feed (.vcf path or http(s) URL)"
	FlagDescVCardUser = "Basic auth user for a remote address book (password read from the OS keyring)"
	FlagDescInterval  = "Address book refresh interval in minutes"
	FlagDescReminder  = "Alarm trigger for feed events, ISO 8601 duration (e.g. -P1D)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Milestone Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultAgeYears is used when the "years old" parameter is absent or unusable.
	DefaultAgeYears = 37

	// MaxAgeYears bounds the parameter; larger values fall back to the default.
	MaxAgeYears = 999

	SecondsPerDay = 24 * 60 * 60

	// Footer line.
	CopyrightYear   = 2025
	CopyrightHolder = "agwlvssainokuni"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	WindowWidth  = 480
	WindowHeight = 360

	// Preference Keys
	PrefServerPort = "server_port"
	PrefLastRun    = "last_run_version"
	PrefAgeYears   = "age_years"

	// DateEntryMaxLen is the length of "YYYY-MM-DD".
	DateEntryMaxLen = 10
	DatePlaceholder = "YYYY-MM-DD"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyTitle              = "title"                // Requires Age
	TKeyPrompt             = "prompt"               // Helper text under the date field
	TKeyFooter             = "footer"               // Requires Year, Holder
	TKeyMilestonePending   = "milestone_pending"    // Requires Age
	TKeyMilestoneResult    = "milestone_result"     // Requires Age, Year, Month, Day
	TKeyBreakdownPending   = "breakdown_pending"    // Requires Age
	TKeyBreakdownRemaining = "breakdown_remaining"  // Requires Age, Years, Months, Days
	TKeyBreakdownElapsed   = "breakdown_elapsed"    // Requires Age, Years, Months, Days
	TKeyTotalDaysPending   = "total_days_pending"   // Requires Age
	TKeyTotalDaysRemaining = "total_days_remaining" // Requires Age, Days
	TKeyTotalDaysElapsed   = "total_days_elapsed"   // Requires Age, Days
	TKeyEvtSummary         = "event_summary"        // Requires Name, Age
	TKeyBtnCalculate       = "btn_calculate"        // HTML form submit label
	TKeyLinkCalendar       = "link_calendar"        // HTML link to the .ics export
	TKeyErrInvalidBirthday = "err_invalid_birthday" // HTTP 400 body for the .ics export
)

// DefaultLanguage is the single shipped locale.
const DefaultLanguage = "ja"

// -----------------------------------------------------------------------------
// Source Modes & Feed
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18037"
	DefaultRefreshMin = 60
	UIDSalt           = "go-milestone-v1"
	UIDDomainSuffix   = "@gomilestone"
	FormatHashInput   = "%s|%s|%s|%d"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Milestone//Engine//JA"
	ICalCalName   = "Milestone Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for birth dates
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatLocalT    = "2006-01-02T15:04:05"
	DateFormatLocalTMin = "2006-01-02T15:04"

	FormatISODate = "%04d-%02d-%02d"

	// Limits
	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Routes & Parameters
// -----------------------------------------------------------------------------

const (
	RouteRoot          = "/"
	ParamYearsOld      = "yearsOld"
	RoutePage          = "/{" + ParamYearsOld + "}"
	RouteMilestoneICS  = "/{" + ParamYearsOld + "}/milestone.ics"
	RouteContactsICS   = "/contacts.ics"
	RouteMetrics       = "/metrics"
	QueryBirthday      = "birthday"
	FormatMilestoneICS = "/%d/milestone.ics?%s=%s"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextHTML        = "text/html; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrRequestBuild   = "failed to create request"
	ErrNetwork        = "network error during fetch"
	ErrBadStatus      = "server returned unexpected status"
	ErrVCardSource    = "failed to open address book"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateEmpty      = "date is empty"
	ErrDateParse      = "unable to parse date"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrTemplate       = "failed to render page"
	ErrSyncFailed     = "address book sync failed"
	ErrKeyring        = "password retrieval failed (might be empty)"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNoFeed       = "No address book configured."
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

// Fallback formats mirror the ja locale and are used when a message is missing.
const (
	FallbackTitle              = "🍀%d🍀 タイマー"
	FallbackPrompt             = "生年月日を入力してください。"
	FallbackFooter             = "Copyright ©, %d, %s"
	FallbackMilestonePending   = "%d歳 の誕生日を計算します。"
	FallbackMilestoneResult    = "%d歳 の誕生日は %04d年%02d月%02d日 です。"
	FallbackBreakdownPending   = "%d歳 までの年月日数を計算します。"
	FallbackBreakdownRemaining = "%d歳 まで %d年 %dか月 %d日 です。"
	FallbackBreakdownElapsed   = "%d歳 と %d年 %dか月 %d日 です。"
	FallbackTotalDaysPending   = "%d歳 までの日数を計算します。"
	FallbackTotalDaysRemaining = "%d歳 まで %d日 です。"
	FallbackTotalDaysElapsed   = "%d歳 と %d日 です。"
	FallbackSummary            = "%s %d歳の誕生日"
	FallbackName               = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Address book sync started"
	MsgSyncFinished   = "Address book sync finished"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping contact without a usable birth date"
	MsgGenSuccess     = "Milestone feed generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgFetchStarted   = "Address book downloading"
	MsgFetchBadStatus = "Server returned error status"
	MsgRecomputed     = "Milestone recomputed"
	MsgInputCleared   = "Birth date cleared or invalid"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace      = "go_milestone"
	MetricComputations    = "computations_total"
	MetricComputationsHlp = "Milestone computations by outcome"
	MetricSyncDuration    = "contacts_sync_duration_seconds"
	MetricSyncDurationHlp = "Duration of address book syncs"
	MetricSyncErrors      = "contacts_sync_errors_total"
	MetricSyncErrorsHlp   = "Address book syncs that failed"
	MetricContacts        = "contacts_published"
	MetricContactsHlp     = "Contacts in the last published feed"
	LabelOutcome          = "outcome"
	LabelSurface          = "surface"
	OutcomeValid          = "valid"
	OutcomeInvalid        = "invalid"
	SurfaceUI             = "ui"
	SurfaceHTTP           = "http"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyAge       = "age_years"
	LogKeyMilestone = "milestone"
	LogKeyPast      = "past"
	LogKeyTotalDays = "total_days"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "milestones_found"
	LogKeySkipped   = "skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild     = "build"
	LogKeyApp       = "app"
	LogKeyVersion   = "version"
	LogKeyCommit    = "commit"
	LogKeyBuildDate = "date"
	LogKeyGoVer     = "go_version"
	LogKeyEnv       = "env"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
	LogKeyPID       = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)
