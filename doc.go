// Package flowstore persists step outputs of data pipelines to the local
// filesystem so downstream steps can load them.
//
// The package is organized into subpackages by domain:
//
//   - artifact: Managers, path resolution, identities and errors
//   - codec: Value serialization (gob, json, yaml, cbor, gzip)
//   - config: Layered configuration (defaults, files, environment, flags)
//   - catalog: Materialization recorders (log, memory, sqlite, webhook)
//   - telemetry: Prometheus and OpenTelemetry manager decorators
//   - pipeline: flowgraph nodes that store and load step outputs
//   - testutil: Test fixtures
//
// # Quick Start
//
//	settings := config.DefaultSettings()
//	settings.BaseDir = "/tmp/run"
//
//	mgr, err := flowstore.Open(settings)
//	if err != nil {
//	    return err
//	}
//
//	services := &flowstore.Services{Manager: mgr, Recorder: catalog.NewLogRecorder(nil)}
//	ctx = services.InjectAll(ctx)
//
// See individual package documentation for detailed usage.
package flowstore
