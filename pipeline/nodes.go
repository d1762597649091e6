package pipeline

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	"github.com/randalmurphal/flowstore"
	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/catalog"
)

// Node errors
var (
	ErrNoManager = errors.New("no artifact manager in context")
	ErrNoRun     = errors.New("no run in context")
)

// StoreOutput returns a node that stores value(state) as output of step.
//
// Requires: artifact manager and Run in context
// Optional: catalog.Recorder in context, receives the materialization record
// Updates: None
func StoreOutput[S any](step, output string, meta artifact.OutputMetadata, value func(S) any) flowgraph.NodeFunc[S] {
	return func(ctx flowgraph.Context, state S) (S, error) {
		mgr := flowstore.ManagerFromContext(ctx)
		if mgr == nil {
			return state, ErrNoManager
		}
		run, ok := RunFromContext(ctx)
		if !ok {
			return state, ErrNoRun
		}

		rec, err := mgr.Store(ctx, run.Output(step, output, meta), value(state))
		if err != nil {
			return state, fmt.Errorf("store %s.%s: %w", step, output, err)
		}

		if rec != nil {
			if recorder := catalog.RecorderFromContext(ctx); recorder != nil {
				if err := recorder.Record(ctx, *rec); err != nil {
					return state, fmt.Errorf("record %s.%s: %w", step, output, err)
				}
			}
		}
		return state, nil
	}
}

// LoadInput returns a node that loads output of step into the target
// returned by load. meta must match the metadata the output was stored with.
//
// Requires: artifact manager and Run in context
// Updates: whatever load points at
func LoadInput[S any](step, output string, meta artifact.OutputMetadata, load func(*S) any) flowgraph.NodeFunc[S] {
	return func(ctx flowgraph.Context, state S) (S, error) {
		mgr := flowstore.ManagerFromContext(ctx)
		if mgr == nil {
			return state, ErrNoManager
		}
		run, ok := RunFromContext(ctx)
		if !ok {
			return state, ErrNoRun
		}

		if err := mgr.Load(ctx, run.Input(step, output, meta), load(&state)); err != nil {
			return state, fmt.Errorf("load %s.%s: %w", step, output, err)
		}
		return state, nil
	}
}
