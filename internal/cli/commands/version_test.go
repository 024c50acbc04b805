package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut []string
		notOut  []string
	}{
		{
			name:    "default version",
			info:    BuildInfo{Version: "0.1.0", GitCommit: "unknown", BuildDate: "unknown"},
			wantOut: []string{"sqldash v0.1.0", "dashboard"},
			notOut:  []string{"commit:", "built:"},
		},
		{
			name:    "custom version",
			info:    BuildInfo{Version: "1.2.3"},
			wantOut: []string{"sqldash v1.2.3"},
		},
		{
			name:    "stamped build metadata",
			info:    BuildInfo{Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2026-08-25"},
			wantOut: []string{"sqldash v1.2.3", "commit: abc1234", "built: 2026-08-25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.wantOut {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
			for _, not := range tt.notOut {
				if strings.Contains(output, not) {
					t.Errorf("output should not contain %q, got: %s", not, output)
				}
			}
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

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
