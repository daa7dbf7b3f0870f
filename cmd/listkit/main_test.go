package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// run executes the root command with args and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := buildRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestConfigCommand(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		args     []string
		env      map[string]string
		contains []string
		wantErr  bool
	}{
		{
			name:     "defaults without a file",
			contains: []string{"theme: default", "itemCount: 1000"},
		},
		{
			name:     "file values",
			file:     "theme: light\nlist:\n  overscan: 7\n",
			contains: []string{"theme: light", "overscan: 7"},
		},
		{
			name:     "flags override the file",
			file:     "theme: light\n",
			args:     []string{"--theme", "high-contrast", "--items", "42"},
			contains: []string{"theme: high-contrast", "itemCount: 42"},
		},
		{
			name:     "environment overrides the file",
			file:     "theme: light\n",
			env:      map[string]string{"LISTKIT_THEME": "high-contrast", "LISTKIT_OVERSCAN": "11"},
			contains: []string{"theme: high-contrast", "overscan: 11"},
		},
		{
			name:    "invalid override",
			args:    []string{"--items", "-1"},
			wantErr: true,
		},
		{
			name:    "unknown field in file",
			file:    "colour: red\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			if tt.file != "" {
				dir = writeConfig(t, tt.file)
			}

			args := append([]string{"config", "--config-dir", dir}, tt.args...)
			out, err := run(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "config", "--path", "--config-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("path = %q", got)
	}
}

func TestConfigInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "listkit")

	if _, err := run(t, "config", "init", "--config-dir", dir); err != nil {
		t.Fatalf("first init: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "frameInterval: 16ms") {
		t.Errorf("written config:\n%s", data)
	}

	if _, err := run(t, "config", "init", "--config-dir", dir); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if info["version"] != Version {
		t.Errorf("version = %q, want %q", info["version"], Version)
	}
}
