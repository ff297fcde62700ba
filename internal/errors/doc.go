// Package errors provides structured, actionable errors for ticketdesk.
//
// Each registered code (e.g. "T120") maps to a category, a short message and
// a longer explanation. Call sites add detail, a fix hint and the wrapped
// cause:
//
//	err := errors.New("T120").
//	    WithDetail("parsing ticketdesk.jsonc: unexpected end of JSON input").
//	    WithSuggestion("Check that the file is valid JSON (comments are allowed)")
//
// Format renders the error for a terminal; Error gives a one-line form for
// logs. Errors compare equal under errors.Is when their codes match.
//
// Codes:
//   - T1xx: configuration
//   - T2xx: runtime (render, handlers, sessions)
//   - T3xx: wire protocol
//   - T4xx: command line
package errors
