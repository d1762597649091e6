// Package testutil provides fixtures for testing code that stores artifacts.
package testutil

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/randalmurphal/flowstore/artifact"
)

// DefaultPipeline is the pipeline name used by Output and CustomOutput.
const DefaultPipeline = "test-pipeline"

// Output returns an auto-path output description.
func Output(runID, step, name string) *artifact.Output {
	return &artifact.Output{
		Identity:     artifact.OutputIdentity{RunID: runID, StepKey: step, OutputName: name},
		PipelineName: DefaultPipeline,
	}
}

// CustomOutput returns an output whose metadata declares path.
func CustomOutput(runID, step, name, path string) *artifact.Output {
	out := Output(runID, step, name)
	out.Metadata.Path = path
	return out
}

// InputFor returns an input consuming out.
func InputFor(out *artifact.Output) *artifact.Input {
	return &artifact.Input{Upstream: out}
}

// SetupArtifactTree creates a base directory holding files, keyed by
// slash-separated relative path.
func SetupArtifactTree(t *testing.T, files map[string][]byte) string {
	t.Helper()

	base := t.TempDir()
	for rel, data := range files {
		path := filepath.Join(base, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return base
}

// ListArtifacts returns every regular file under base as a sorted,
// slash-separated relative path.
func ListArtifacts(t *testing.T, base string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", base, err)
	}
	sort.Strings(files)
	return files
}

// ReadArtifact returns the raw bytes stored at path.
func ReadArtifact(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read artifact %s: %v", path, err)
	}
	return data
}

// AssertEmptyDir fails the test if dir contains anything.
func AssertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected %s to be empty, found %v", dir, names)
	}
}

// CaptureLogger returns a debug-level text logger writing to the returned buffer.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}
