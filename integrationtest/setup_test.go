package integrationtest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	"github.com/randalmurphal/flowstore"
	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/catalog"
	"github.com/randalmurphal/flowstore/config"
	"github.com/randalmurphal/flowstore/pipeline"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// env bundles everything a pipeline run needs.
type env struct {
	BaseDir  string
	Manager  artifact.Manager
	Catalog  *catalog.SQLiteLog
	Memory   *catalog.MemoryRecorder
	Registry *prometheus.Registry
	Spans    *tracetest.SpanRecorder
}

// setupEnv writes a project-local config file, resolves it the way a
// command-line tool would, and opens a fully instrumented manager.
func setupEnv(t *testing.T, localYAML string) *env {
	t.Helper()

	project := t.TempDir()
	baseDir := filepath.Join(project, "artifacts")
	localPath := filepath.Join(project, config.DefaultLocalConfigName)
	require.NoError(t, os.WriteFile(localPath, []byte(localYAML), 0644))

	cfg := config.DefaultResolverConfig()
	cfg.ErrWriter = &bytes.Buffer{}
	resolver := config.NewResolverWithPaths(cfg, "", localPath)

	reg := prometheus.NewRegistry()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	mgr, err := flowstore.OpenResolved(resolver,
		map[string]string{config.KeyBaseDir: baseDir},
		flowstore.WithRegisterer(reg),
		flowstore.WithTracer(tp.Tracer("integration")),
	)
	require.NoError(t, err)

	log, err := catalog.OpenSQLiteLog(context.Background(), filepath.Join(project, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return &env{
		BaseDir:  baseDir,
		Manager:  mgr,
		Catalog:  log,
		Memory:   catalog.NewMemoryRecorder(),
		Registry: reg,
		Spans:    spans,
	}
}

// context injects the manager, both recorders and run.
func (e *env) context(run pipeline.Run) flowgraph.Context {
	services := &flowstore.Services{
		Manager:  e.Manager,
		Recorder: catalog.NewMultiRecorder(e.Catalog, e.Memory),
	}
	ctx := pipeline.WithRun(services.InjectAll(context.Background()), run)
	return flowgraph.NewContext(ctx)
}
