// Package artifact stores and loads pipeline step outputs on a local or shared filesystem.
//
// Core types:
//   - OutputIdentity: run-scoped (run, step, output) identifier
//   - Output / Input: what a step exposes when producing or consuming a value
//   - Manager: the Store/Load contract
//   - FSManager: paths derived from the identity, never cataloged
//   - CustomPathManager: caller-chosen paths, returns a Materialization for the catalog
//
// Example usage:
//
//	mgr, err := artifact.NewManager(artifact.Config{
//	    BaseDir:  "/var/lib/pipelines",
//	    Strategy: artifact.StrategyAuto,
//	})
//	_, err = mgr.Store(ctx, out, value)
//	err = mgr.Load(ctx, &artifact.Input{Upstream: out}, &value)
package artifact
