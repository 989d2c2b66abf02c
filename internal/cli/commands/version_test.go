package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqltrail/internal/cli/config"
	"github.com/leapstack-labs/sqltrail/internal/cli/output"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		wantOut []string
		notWant []string
	}{
		{
			name:    "version only",
			version: "0.1.0",
			wantOut: []string{"sqltrail v0.1.0"},
			notWant: []string{"commit:", "built:"},
		},
		{
			name:    "full build info",
			version: "1.2.3",
			commit:  "abc1234",
			date:    "2025-06-01",
			wantOut: []string{"sqltrail v1.2.3", "commit: abc1234", "built: 2025-06-01"},
		},
		{
			name:    "dev version",
			version: "dev",
			wantOut: []string{"sqltrail vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()

			cmd := NewVersionCommand(tt.version, tt.commit, tt.date)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			got := buf.String()
			for _, want := range tt.wantOut {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q, got: %s", want, got)
				}
			}
			for _, unwanted := range tt.notWant {
				if strings.Contains(got, unwanted) {
					t.Errorf("output should not contain %q, got: %s", unwanted, got)
				}
			}
		})
	}
}

func TestVersionCommandJSON(t *testing.T) {
	config.ResetConfig()
	t.Setenv("SQLTRAIL_OUTPUT", "json")

	cmd := NewVersionCommand("1.2.3", "abc1234", "2025-06-01")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got output.VersionOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	if got.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", got.Version, "1.2.3")
	}
	if got.Commit != "abc1234" {
		t.Errorf("Commit = %q, want %q", got.Commit, "abc1234")
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("test", "", "")

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}

	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long should not be empty")
	}
}
