package artifact

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/randalmurphal/flowstore/codec"
)

func newOutput(run, step, name string) *Output {
	return &Output{
		Identity:     OutputIdentity{RunID: run, StepKey: step, OutputName: name},
		PipelineName: "test-pipeline",
	}
}

func TestNewFSManager_Defaults(t *testing.T) {
	m := NewFSManager("", nil)

	if m.BaseDir() != "." {
		t.Errorf("baseDir = %q, want %q", m.BaseDir(), ".")
	}
	if m.codec.Name() != codec.NameCBOR {
		t.Errorf("codec = %q, want %q", m.codec.Name(), codec.NameCBOR)
	}
}

func TestFSManager_StoreLoad(t *testing.T) {
	dir := t.TempDir()
	m := NewFSManager(dir, nil)
	ctx := context.Background()
	out := newOutput("r1", "s1", "out")

	rec, err := m.Store(ctx, out, map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if rec != nil {
		t.Errorf("auto strategy returned a materialization: %+v", rec)
	}

	wantPath := filepath.Join(dir, "r1", "s1", "out")
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("artifact not written at %s: %v", wantPath, err)
	}

	var got map[string]int
	if err := m.Load(ctx, &Input{Upstream: out}, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]int{"a": 1}) {
		t.Errorf("loaded %v, want map[a:1]", got)
	}
}

func TestFSManager_Overwrite(t *testing.T) {
	m := NewFSManager(t.TempDir(), codec.JSON{})
	ctx := context.Background()
	out := newOutput("r1", "s1", "out")

	if _, err := m.Store(ctx, out, "a much longer first value"); err != nil {
		t.Fatalf("first Store: %v", err)
	}
	if _, err := m.Store(ctx, out, "second"); err != nil {
		t.Fatalf("second Store: %v", err)
	}

	var got string
	if err := m.Load(ctx, &Input{Upstream: out}, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("loaded %q, want %q", got, "second")
	}
}

func TestFSManager_LoadNotFound(t *testing.T) {
	m := NewFSManager(t.TempDir(), nil)

	var got map[string]int
	err := m.Load(context.Background(), &Input{Upstream: newOutput("r1", "s1", "never")}, &got)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, should also match fs.ErrNotExist", err)
	}

	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("err is %T, want *Error", err)
	}
	if aerr.Op != "load" {
		t.Errorf("Op = %q, want %q", aerr.Op, "load")
	}
}

func TestFSManager_LoadDecodeError(t *testing.T) {
	dir := t.TempDir()
	m := NewFSManager(dir, codec.JSON{})
	out := newOutput("r1", "s1", "out")

	path := m.Path(out.Identity)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var got map[string]int
	err := m.Load(context.Background(), &Input{Upstream: out}, &got)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestFSManager_EncodeError(t *testing.T) {
	dir := t.TempDir()
	m := NewFSManager(dir, codec.JSON{})

	_, err := m.Store(context.Background(), newOutput("r1", "s1", "out"), make(chan int))
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("err = %v, want ErrEncode", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "r1")); !os.IsNotExist(err) {
		t.Error("nothing should be written when encoding fails")
	}
}

func TestFSManager_InvalidIdentity(t *testing.T) {
	dir := t.TempDir()
	m := NewFSManager(dir, nil)
	ctx := context.Background()

	_, err := m.Store(ctx, newOutput("r1", "", "out"), 1)
	if !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("Store err = %v, want ErrInvalidIdentity", err)
	}

	var v int
	err = m.Load(ctx, &Input{Upstream: newOutput("r1", "../s1", "out")}, &v)
	if !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("Load err = %v, want ErrInvalidIdentity", err)
	}

	err = m.Load(ctx, &Input{}, &v)
	if !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("Load without upstream err = %v, want ErrInvalidIdentity", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("base dir should be untouched, found %d entries", len(entries))
	}
}

func TestFSManager_RunIsolation(t *testing.T) {
	m := NewFSManager(t.TempDir(), nil)
	ctx := context.Background()

	if _, err := m.Store(ctx, newOutput("run-a", "s1", "out"), "run-a-data"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Store(ctx, newOutput("run-b", "s1", "out"), "run-b-data"); err != nil {
		t.Fatal(err)
	}

	for _, run := range []string{"run-a", "run-b"} {
		var got string
		if err := m.Load(ctx, &Input{Upstream: newOutput(run, "s1", "out")}, &got); err != nil {
			t.Fatalf("Load %s: %v", run, err)
		}
		if got != run+"-data" {
			t.Errorf("%s content = %q, want %q", run, got, run+"-data")
		}
	}
}

func TestFSManager_LogsResolvedPath(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := NewFSManager(t.TempDir(), nil)
	out := newOutput("r1", "s1", "out")
	out.Logger = logger

	if _, err := m.Store(context.Background(), out, 7); err != nil {
		t.Fatal(err)
	}
	var v int
	if err := m.Load(context.Background(), &Input{Upstream: out}, &v); err != nil {
		t.Fatal(err)
	}

	logs := buf.String()
	if !strings.Contains(logs, "writing artifact") || !strings.Contains(logs, "loading artifact") {
		t.Errorf("missing debug lines in log output:\n%s", logs)
	}
	if !strings.Contains(logs, m.Path(out.Identity)) {
		t.Errorf("log output should contain resolved path %q:\n%s", m.Path(out.Identity), logs)
	}
}

func TestFSManager_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	m := NewFSManager(dir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Store(ctx, newOutput("r1", "s1", "out"), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Store err = %v, want context.Canceled", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("canceled store should not write")
	}
}
