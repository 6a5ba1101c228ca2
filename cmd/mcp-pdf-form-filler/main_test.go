package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/a3tai/mcp-pdf-form-filler/internal/config"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = "1.2.3"
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, expected := range []string{
		"MCP PDF Form Filler",
		"Version: 1.2.3",
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, buf.String())
		}
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	tests := []struct {
		name       string
		config     *config.Config
		wantOutput io.Writer
	}{
		{
			name:       "stdio mode - debug enabled",
			config:     &config.Config{Mode: config.ModeStdio, LogLevel: "debug"},
			wantOutput: os.Stderr,
		},
		{
			name:       "stdio mode - debug disabled",
			config:     &config.Config{Mode: config.ModeStdio, LogLevel: "info"},
			wantOutput: io.Discard,
		},
		{
			name:       "server mode",
			config:     &config.Config{Mode: config.ModeServer, LogLevel: "info"},
			wantOutput: os.Stderr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogging(tt.config)
			if log.Writer() != tt.wantOutput {
				t.Errorf("setupLogging() set unexpected log output %v", log.Writer())
			}
		})
	}

	setupLogging(&config.Config{Mode: config.ModeServer})
	if log.Flags()&log.Lshortfile == 0 {
		t.Error("server mode should log file names")
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{args: []string{"--version"}, want: true},
		{args: []string{"-version"}, want: true},
		{args: []string{"--dir=/tmp", "-v"}, want: true},
		{args: []string{"--dir=/tmp"}, want: false},
		{args: nil, want: false},
	}

	for _, tt := range tests {
		if got := hasVersionFlag(tt.args); got != tt.want {
			t.Errorf("hasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
