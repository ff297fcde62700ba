package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/ticketdesk/internal/config"
	"github.com/vango-dev/ticketdesk/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q, want %q", out, version)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "none.jsonc")

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "empty classic",
			args:     []string{"render"},
			contains: []string{"No tickets", `id="add-ticket-form"`, `data-on-submit="true"`},
		},
		{
			name:     "demo",
			args:     []string{"render", "--demo"},
			contains: []string{`id="ticket-list"`, `data-on-click="true"`},
			excludes: []string{"No tickets"},
		},
		{
			name:     "page",
			args:     []string{"render", "--page"},
			contains: []string{"<!DOCTYPE html>", `<div id="root">`},
			excludes: []string{"<script"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run from a directory without a config file.
			wd, _ := os.Getwd()
			os.Chdir(dir)
			defer os.Chdir(wd)

			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q", unwanted)
				}
			}
		})
	}

	t.Run("explicit missing config", func(t *testing.T) {
		_, err := execute(t, "render", "--config", missing)
		if errors.Code(err) != "T141" {
			t.Errorf("error = %v, want T141", err)
		}
	})

	t.Run("bad variant", func(t *testing.T) {
		_, err := execute(t, "render", "--variant", "sideways")
		if errors.Code(err) != "T122" {
			t.Errorf("error = %v, want T122", err)
		}
	})
}

func TestTreeCommand(t *testing.T) {
	out, err := execute(t, "tree", "--demo", "--plain", "--config", writeConfig(t, `{"ui": {"variant": "classic"}}`))
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	for _, want := range []string{"<div> id=root", "<form>", "on:submit", "on:click"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeAllowListPolicy(t *testing.T) {
	out, err := execute(t, "tree", "--plain", "--policy", "allowlist", "--config", writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	if !strings.Contains(out, "on:submit") {
		t.Errorf("allow-list tree should still bind submit:\n%s", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "init", "--dir", dir); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !config.Exists(dir) {
		t.Fatal("init should write the config file")
	}
	if _, err := config.Load(dir); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	_, err := execute(t, "init", "--dir", dir)
	if errors.Code(err) != "T401" {
		t.Errorf("second init error = %v, want T401", err)
	}
	if _, err := execute(t, "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestPrintError(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	var b bytes.Buffer
	printError(&b, errors.New("T401").WithDetail("x exists"))
	if !strings.Contains(b.String(), "T401") || !strings.Contains(b.String(), "x exists") {
		t.Errorf("coded error output = %q", b.String())
	}

	b.Reset()
	printError(&b, stderrors.New("plain failure"))
	if !strings.Contains(b.String(), "plain failure") {
		t.Errorf("plain error output = %q", b.String())
	}
}

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	logger := newLogger(&b, config.LogConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := b.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
