package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func TestParseMetadata(t *testing.T) {
	meta, err := parseMetadata([]string{"via=hand", "mood=calm"})
	if err != nil {
		t.Fatalf("parseMetadata returned error: %v", err)
	}
	if meta["via"] != "hand" || meta["mood"] != "calm" {
		t.Fatalf("unexpected metadata: %v", meta)
	}

	if meta, _ := parseMetadata(nil); meta != nil {
		t.Fatalf("expected nil metadata for no pairs, got %v", meta)
	}

	if _, err := parseMetadata([]string{"novalue"}); err == nil {
		t.Fatal("expected error for pair without '='")
	}
	if _, err := parseMetadata([]string{"=orphan"}); err == nil {
		t.Fatal("expected error for pair without a key")
	}
}

func TestRunStatsEmptyGraph(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()

	output := captureOutput(t, func() {
		if err := runStats(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runStats returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Nodes:          0") {
		t.Fatalf("expected zero node count, got: %s", output)
	}
}

func TestEdgeThenQueryRoundTrip(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()
	edgeConfidence = 0.7
	edgeMetadata = nil

	output := captureOutput(t, func() {
		if err := runEdgeCreate(&cobra.Command{}, []string{"self", "fears", "stagnation"}); err != nil {
			t.Fatalf("runEdgeCreate returned error: %v", err)
		}
	})
	if !strings.Contains(output, "Created") {
		t.Fatalf("expected creation notice, got: %s", output)
	}

	querySource = "self"
	queryRelationship = ""
	queryTarget = ""
	output = captureOutput(t, func() {
		if err := runQuery(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runQuery returned error: %v", err)
		}
	})
	if !strings.Contains(output, "self --fears--> stagnation") {
		t.Fatalf("expected edge in query output, got: %s", output)
	}
}

func TestRunExcavateStateFresh(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()

	output := captureOutput(t, func() {
		if err := runExcavateState(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runExcavateState returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Completed: 0/6") {
		t.Fatalf("expected fresh excavation state, got: %s", output)
	}
	if !strings.Contains(output, "excavate question fears") {
		t.Fatalf("expected pointer to the first question, got: %s", output)
	}
}

func TestRunBootstrapPlantsInstance(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()

	output := captureOutput(t, func() {
		if err := runBootstrap(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runBootstrap returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Instance name: unnamed") {
		t.Fatalf("expected unnamed instance, got: %s", output)
	}
	if !strings.Contains(output, "not started yet") {
		t.Fatalf("expected excavation not started, got: %s", output)
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
