package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "T120",
			wantMsg: "Invalid configuration file",
			wantCat: CategoryConfig,
		},
		{
			name:    "runtime error",
			code:    "T202",
			wantMsg: "Handler not found",
			wantCat: CategoryRuntime,
		},
		{
			name:    "protocol error",
			code:    "T301",
			wantMsg: "Invalid frame",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "T999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("T120").WithDetail("writing ticketdesk.jsonc").Wrap(cause)
	want := "T120: Invalid configuration file (writing ticketdesk.jsonc): disk full"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("loading: %w", New("T141").WithDetail("no file in /tmp"))
	if !stderrors.Is(err, New("T141")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("T120")) {
		t.Error("errors.Is should not match a different code")
	}
	if got := Code(err); got != "T141" {
		t.Errorf("Code() = %q, want T141", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code(plain) = %q, want empty", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "T120") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("T202")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "T120"); got != orig {
		t.Error("FromError should return an existing *Error from the chain")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "T203")
	if got.Code != "T203" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q exists", "ticketdesk.jsonc")
	if err.Code != "" || err.Category != CategoryCLI {
		t.Errorf("Newf() = %+v", err)
	}
	if got := err.Error(); got != `file "ticketdesk.jsonc" exists` {
		t.Errorf("Error() = %q", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("T122").
		WithSuggestion(`Use "classic" or "threaded"`).
		Wrap(stderrors.New(`got "fancy"`))
	out := err.Format()

	for _, want := range []string{
		"ERROR T122: Invalid UI variant",
		`ui.variant must be "classic" or "threaded".`,
		`Cause: got "fancy"`,
		`Hint: Use "classic" or "threaded"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Format() should not emit escape codes with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	if got := New("T301").FormatCompact(); got != "T301: Invalid frame" {
		t.Errorf("FormatCompact() = %q", got)
	}
	if got := Newf(CategoryCLI, "oops").FormatCompact(); got != "oops" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText() = %q, want %q", lines, want)
	}
	if wrapText("   ", 10) != nil {
		t.Error("wrapText(blank) should be nil")
	}
}
