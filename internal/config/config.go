package config

import (
	"io/fs"
	"os"
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

// UserAgent identifies the HTTP client used for remote vCard imports.
var UserAgent = "Go-Birthday-Server/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Birthday Server"
	AppID          = "com.github.tartampluch.go-birthday-server"
	KeyringService = "com.github.tartampluch.go-birthday-server"
	LogFileName    = "server.log"
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
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvBindAddr    = "BIRTHDAY_BIND_ADDR"
	EnvPort        = "BIRTHDAY_PORT"
	EnvLanguage    = "BIRTHDAY_LANG"
	EnvKeyring     = "BIRTHDAY_KEYRING"
	EnvFileDefault = ".env"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyAgeYears        = "age_years"
	TKeyDateFull        = "date_full"
	TKeyDateNoYear      = "date_no_year"
	TKeyEvtSummary      = "event_summary"
	TKeyEvtSummaryAge   = "event_summary_age"
	TKeyEvtSummaryBirth = "event_summary_birth"
	TKeyMonthPrefix     = "month_"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultBindAddr = "127.0.0.1"
	DefaultPort     = "18080"
	DefaultLanguage = "ru"

	// DefaultLeapYear is the leap year used as a placeholder for year-less
	// dates like --02-29, so Feb 29 stays representable.
	DefaultLeapYear = 2000

	// UpcomingWindowDays bounds the "upcoming birthdays" statistic (inclusive).
	UpcomingWindowDays = 7

	// UIDSalt feeds deterministic UID generation for exported calendar events.
	UIDSalt = "go-birthday-server-v1-"

	KeyringEnabled = "1"
)

// Notification services supported by the settings store.
const (
	ServiceTelegram = "telegram"
	ServiceEmail    = "email"
	ServiceVK       = "vk"
)

// AllowedReminderTimes is the fixed set of valid timeOfDay values for
// reminder settings (24-hour HH:MM).
var AllowedReminderTimes = []string{"09:00", "10:00", "12:00", "15:00", "18:00", "20:00"}

// DefaultReminderTime is applied when no reminder settings were ever saved.
const DefaultReminderTime = "10:00"

// Reminder alarm triggers (RFC 5545 durations). A calendar month is
// approximated as 30 days because dur-value has no month unit.
const (
	TriggerOneMonth  = "-P30D"
	TriggerOneWeek   = "-P7D"
	TriggerThreeDays = "-P3D"
	TriggerOneDay    = "-P1D"
	TriggerOnDay     = "PT0S"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Birthday Server//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gobirthday"

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
	VCardNote = "NOTE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Canonical wire encodings of a birthday date.
	DateFormatFullDash = "2006-01-02"
	DateFormatNoYearD  = "--01-02"

	// Additional layouts accepted when importing vCard BDAY fields.
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearB   = "--0102"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
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
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB is already generous for vCard payloads
	MaxRequestBodySize  = 1 * 1024 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

const (
	RouteBirthdays            = "/api/birthdays"
	RouteBirthdayByID         = "/{id}"
	RouteStats                = "/stats"
	RouteCalendar             = "/calendar"
	RouteImport               = "/import"
	RouteReminderSettings     = "/api/reminder-settings"
	RouteNotificationSettings = "/api/notification-settings"
	RouteHealth               = "/healthz"
	RouteMetrics              = "/metrics"

	URLParamID = "id"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderXContentType    = "X-Content-Type-Options"

	MimeJSON            = "application/json"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// API Error Codes
// -----------------------------------------------------------------------------

const (
	CodeInvalidBody   = "INVALID_BODY"
	CodeInvalidID     = "INVALID_ID"
	CodeMalformedDate = "MALFORMED_DATE"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrMalformedDateText = "malformed birthday date"
	ErrRecordNotFound    = "birthday record not found"
	ErrUnknownService    = "unknown notification service"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrInvalidTimeOfDay  = "time of day outside the allowed set"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrBuildRequest      = "failed to build download request"
	ErrFetchNetwork      = "network error during fetch"
	ErrFetchStatus       = "server returned unexpected status"
	ErrVCardParse        = "failed to parse vCard stream"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrLocalesAccess     = "failed to access embedded locales"
	ErrLocaleLoad        = "failed to load locale file"
	ErrKeyringSave       = "failed to save credential to keyring"
	ErrKeyringLoad       = "failed to load credential from keyring"
)

// -----------------------------------------------------------------------------
// API Messages (Client-Facing)
// -----------------------------------------------------------------------------

const (
	MsgInvalidBody       = "Request body is not a valid JSON document of the expected shape."
	MsgInvalidID         = "Birthday id must be a positive integer."
	MsgMalformedDate     = "Birth date must be YYYY-MM-DD or --MM-DD."
	MsgNotFound          = "Birthday record not found."
	MsgInternal          = "Internal server error."
	MsgFirstNameRequired = "First name must not be empty."
	MsgLastNameRequired  = "Last name must not be empty."
	MsgBadTimeOfDay      = "Time of day must be one of 09:00, 10:00, 12:00, 15:00, 18:00, 20:00."
	MsgBadService        = "Service must be one of telegram, email, vk."
	MsgImportSourceReq   = "Import requires a vCard body or a JSON object with a url field."
	MsgHealthOK          = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Birthday: %s"
	FallbackName    = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// exist yet. Clients treat an empty body as a broken feed.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgCacheDropped  = "Calendar cache invalidated"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchRefused  = "Download refused by remote server"
	MsgFetchBody     = "vCards downloading"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgGenSuccess    = "Calendar generation successful"
	MsgImportDone    = "vCard import finished"
	MsgRecordCreated = "Birthday record created"
	MsgRecordUpdated = "Birthday record updated"
	MsgRecordDeleted = "Birthday record deleted"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgEnvFileSkip   = "No .env file found, using process environment"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgRequestDone   = "Request handled"
	MsgPanicRecover  = "Recovered from panic in handler"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyAddr      = "addr"
	LogKeyID        = "id"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyTotal     = "total_records"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyService   = "service"
	LogKeyPanic     = "panic"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompServer  = "server"
	CompStore   = "store"
	CompEngine  = "engine"
	CompFetcher = "fetcher"
	CompI18n    = "i18n"
	CompKeyring = "keyring"
)

// -----------------------------------------------------------------------------
// Runtime Settings
// -----------------------------------------------------------------------------

// Settings carries the environment-derived runtime configuration.
// Everything else in this package is a compile-time constant.
type Settings struct {
	BindAddr   string
	Port       string
	Language   string
	UseKeyring bool
}

// FromEnv reads runtime settings from the process environment, applying
// defaults for anything unset. Call godotenv.Load beforehand if a .env
// file should participate.
func FromEnv() Settings {
	return Settings{
		BindAddr:   envOr(EnvBindAddr, DefaultBindAddr),
		Port:       envOr(EnvPort, DefaultPort),
		Language:   envOr(EnvLanguage, DefaultLanguage),
		UseKeyring: os.Getenv(EnvKeyring) == KeyringEnabled,
	}
}

// Addr returns the listen address in host:port form.
func (s Settings) Addr() string {
	return s.BindAddr + AddrSeparator + s.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
