package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/voice-for-nature/wadden-sea/internal/engine"
)

func TestExecuteUnknownCommand(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"wadden-sea", "frobnicate"}
	if err := Execute(); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestExecuteVersion(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"wadden-sea", "version"}
	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestExecuteHelpWithoutArgs(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"wadden-sea"}
	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestPrintResultWithSources(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &engine.Result{
		Answer:  "Seals insulate with blubber.",
		Sources: []string{"thermo.pdf", "thermo.pdf", "unknown"},
	})

	out := buf.String()
	if !strings.Contains(out, "ANSWER:") || !strings.Contains(out, "Seals insulate with blubber.") {
		t.Errorf("answer missing: %q", out)
	}
	// Sources are numbered in ranking order, duplicates kept.
	if !strings.Contains(out, "1. thermo.pdf\n2. thermo.pdf\n3. unknown\n") {
		t.Errorf("sources wrong: %q", out)
	}
}

func TestPrintResultWithoutSources(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &engine.Result{Answer: "hi", Sources: []string{}})

	if !strings.Contains(buf.String(), "No sources found") {
		t.Errorf("missing no-sources note: %q", buf.String())
	}
}
