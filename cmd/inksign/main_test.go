package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/inksign/inksign/internal/config"
)

func capturePrintVersion(t *testing.T) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	version = "1.2.3"
	buildTime = "2026-08-01_10:30:00"
	gitCommit = "abc123"
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	output := capturePrintVersion(t)

	expectedStrings := []string{
		"inksign",
		"Version: 1.2.3",
		"Build Time: 2026-08-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestSetupLogging_StdioMode(t *testing.T) {
	// Save original log settings
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	// Debug-enabled stdio keeps stderr so protocol traffic stays clean.
	setupLogging(&config.Config{Mode: "stdio", LogLevel: "debug"})
	if log.Writer() != os.Stderr {
		t.Error("setupLogging() for stdio debug mode should set output to stderr")
	}

	// Non-debug stdio silences logging entirely.
	setupLogging(&config.Config{Mode: "stdio", LogLevel: "info"})
	if log.Writer() == os.Stderr {
		t.Error("setupLogging() for stdio non-debug mode should not use stderr")
	}
}

func TestSetupLogging_ServerMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	setupLogging(&config.Config{Mode: "server", LogLevel: "info"})

	expectedFlags := log.LstdFlags | log.Lshortfile
	if log.Flags() != expectedFlags {
		t.Errorf("setupLogging() for server mode: flags = %v, want %v", log.Flags(), expectedFlags)
	}
}

func TestVersionFlagDetection(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		hasVersion bool
	}{
		{name: "no version flag", args: []string{"program"}, hasVersion: false},
		{name: "-version flag", args: []string{"program", "-version"}, hasVersion: true},
		{name: "--version flag", args: []string{"program", "--version"}, hasVersion: true},
		{name: "-v flag", args: []string{"program", "-v"}, hasVersion: true},
		{name: "with other args", args: []string{"program", "-mode=server", "-version"}, hasVersion: true},
		{name: "similar but not version", args: []string{"program", "-verbose", "-versions"}, hasVersion: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, arg := range tt.args[1:] {
				if arg == "-version" || arg == "--version" || arg == "-v" {
					found = true
					break
				}
			}
			if found != tt.hasVersion {
				t.Errorf("Version flag detection for %v: got %v, want %v", tt.args, found, tt.hasVersion)
			}
		})
	}
}
