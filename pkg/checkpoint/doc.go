// Package checkpoint persists the accumulated result set as a CSV
// file so an interrupted run can resume without losing progress. The
// checkpoint is the full materialized set, not a cursor: resuming
// re-scans identifiers and relies on name-level deduplication to keep
// re-insertion a no-op. Writes are atomic (temp file, sync, rename)
// so a crash mid-write never corrupts the last good checkpoint.
package checkpoint
