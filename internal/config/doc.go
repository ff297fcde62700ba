// Package config loads ticketdesk.jsonc.
//
// The file is JSON with comments and trailing commas allowed:
//
//	{
//	  // where to listen
//	  "server": {"address": "localhost:3000", "shutdownTimeout": "15s"},
//	  "session": {"maxSessions": 1000, "readTimeout": "60s"},
//	  "ui": {"title": "Tickets", "variant": "threaded", "eventPolicy": "generic"},
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	}
//
// Missing fields take the defaults from New. Parse validates the result and
// reports problems as codes T120-T126.
package config
