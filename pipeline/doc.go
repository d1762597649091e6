// Package pipeline connects artifact managers to flowgraph graphs.
//
// Core types:
//   - Run: Identity of one pipeline execution (run id and pipeline name)
//
// Node constructors:
//   - StoreOutput: Persists a value taken from state as a step output
//   - LoadInput: Loads an upstream step output into state
//
// Nodes find their manager and catalog recorder through context, injected
// with flowstore.Services. Records returned by custom-path stores are
// forwarded to the recorder; auto-path stores record nothing.
//
// Example usage:
//
//	run := pipeline.NewRun("nightly")
//	ctx := pipeline.WithRun(services.InjectAll(ctx), run)
//
//	graph := flowgraph.NewGraph[State]().
//	    AddNode("extract", extract).
//	    AddNode("save", pipeline.StoreOutput("extract", "rows", artifact.OutputMetadata{},
//	        func(s State) any { return s.Rows })).
//	    AddEdge("extract", "save").
//	    AddEdge("save", flowgraph.END).
//	    SetEntry("extract")
package pipeline
