package flowstore

import (
	"context"
	"testing"

	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/catalog"
)

func TestManagerContext(t *testing.T) {
	ctx := context.Background()
	if ManagerFromContext(ctx) != nil {
		t.Error("expected nil manager in empty context")
	}

	m := artifact.NewFSManager(t.TempDir(), nil)
	ctx = WithManager(ctx, m)

	if got := ManagerFromContext(ctx); got != m {
		t.Errorf("ManagerFromContext = %v, want %v", got, m)
	}
	if got := MustManagerFromContext(ctx); got != m {
		t.Errorf("MustManagerFromContext = %v, want %v", got, m)
	}
}

func TestMustManagerFromContext_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := r.(string); !ok || msg != "flowstore: artifact.Manager not found in context" {
			t.Errorf("panic = %v", r)
		}
	}()
	MustManagerFromContext(context.Background())
}

func TestServices_InjectAll(t *testing.T) {
	m := artifact.NewFSManager(t.TempDir(), nil)
	rec := catalog.NewMemoryRecorder()

	services := &Services{Manager: m, Recorder: rec}
	ctx := services.InjectAll(context.Background())

	if ManagerFromContext(ctx) != m {
		t.Error("manager not injected")
	}
	if catalog.RecorderFromContext(ctx) != rec {
		t.Error("recorder not injected")
	}
}

func TestServices_InjectAll_Partial(t *testing.T) {
	services := &Services{Manager: artifact.NewFSManager(t.TempDir(), nil)}
	ctx := services.InjectAll(context.Background())

	if catalog.RecorderFromContext(ctx) != nil {
		t.Error("unset recorder should not be injected")
	}
}
