// Package catalog delivers materialization records to asset catalogs.
//
// Only the custom-path strategy produces records; artifacts stored with the
// auto strategy never reach a Recorder.
//
// Implementations:
//   - LogRecorder: Logs each record with slog
//   - MemoryRecorder: Keeps records in process, ordered by arrival
//   - SQLiteLog: Append-only SQLite event log with per-asset history
//   - WebhookRecorder: POSTs records as JSON
//   - MultiRecorder: Fans out to several recorders
//   - NopRecorder: Discards records
//
// Example usage:
//
//	log, err := catalog.OpenSQLiteLog(ctx, "catalog.db")
//	defer log.Close()
//	rec, err := mgr.Store(ctx, out, value)
//	if rec != nil {
//	    err = log.Record(ctx, *rec)
//	}
//	latest, err := log.Latest(ctx, rec.AssetKey)
package catalog
