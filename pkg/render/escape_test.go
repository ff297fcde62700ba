package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<b>", "&lt;b&gt;"},
		{`"quoted"`, "&#34;quoted&#34;"},
		{"it's", "it&#39;s"},
		{"日本語", "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeHTML(tt.in); got != tt.want {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\tb", "a&#9;b"},
		{"a\r\nb", "a&#13;&#10;b"},
		{`x" onload="y`, "x&#34; onload=&#34;y"},
		{"a & <b>\n", "a &amp; &lt;b&gt;&#10;"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeAttr(tt.in); got != tt.want {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsHandlerAttr(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"onclick", true},
		{"onClick", true},
		{"ONLOAD", true},
		{"on", false},
		{"open", false},
		{"id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHandlerAttr(tt.name); got != tt.want {
				t.Errorf("isHandlerAttr(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
