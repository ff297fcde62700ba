package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Config (T1xx)
	"T120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"T121": {
		Category: CategoryConfig,
		Message:  "Invalid server address",
		Detail:   "server.address must be host:port.",
	},
	"T122": {
		Category: CategoryConfig,
		Message:  "Invalid UI variant",
		Detail:   "ui.variant must be \"classic\" or \"threaded\".",
	},
	"T123": {
		Category: CategoryConfig,
		Message:  "Invalid event policy",
		Detail:   "ui.eventPolicy must be \"generic\" or \"allowlist\".",
	},
	"T124": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax, e.g. \"30s\" or \"2m\".",
	},
	"T125": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "log.level must be debug, info, warn or error; log.format must be text or json.",
	},
	"T126": {
		Category: CategoryConfig,
		Message:  "Invalid session limits",
		Detail:   "session.maxSessions and session.maxMessageBytes must be positive.",
	},
	"T141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// Runtime (T2xx)
	"T201": {
		Category: CategoryRuntime,
		Message:  "Render failed",
		Detail:   "Building the view returned an error; the previous tree was kept.",
	},
	"T202": {
		Category: CategoryRuntime,
		Message:  "Handler not found",
		Detail:   "No listener is bound for this element and event. The view may have re-rendered.",
	},
	"T203": {
		Category: CategoryRuntime,
		Message:  "Handler failed",
		Detail:   "An event listener returned an error or panicked.",
	},
	"T204": {
		Category: CategoryRuntime,
		Message:  "Session limit reached",
	},

	// Protocol (T3xx)
	"T301": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
	},
	"T302": {
		Category: CategoryProtocol,
		Message:  "Invalid event payload",
	},

	// CLI (T4xx)
	"T401": {
		Category: CategoryCLI,
		Message:  "Refusing to overwrite existing file",
	},
	"T402": {
		Category: CategoryCLI,
		Message:  "Server exited with an error",
	},
}

// Lookup returns the template registered under code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
