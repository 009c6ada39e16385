// Package department runs the export and sync workflows for the department
// table.
//
// Export copies every table row into an XML snapshot file. Sync reads a
// snapshot file, diffs it against the table and applies deletes, updates and
// inserts in one transaction so the table ends up matching the file.
//
// Both workflows stop cleanly (reconcile.IsCleanExit) when the user declines
// a confirmation or when there is nothing to change. Every other failure is a
// *reconcile.StageError naming the step that failed.
//
// Optional archiving uploads the exported file, or the table contents before
// a sync, to object storage.
package department
