// Package snapshot reads and writes department snapshots as XML files.
//
// A document has a <Results> root holding <Row> elements, each with DEPCODE,
// DEPJOB and an optional DESCRIPTION. A missing DESCRIPTION is NULL, an empty
// one is the empty string. Files go through an afero.Fs so tests can use an
// in-memory file system.
package snapshot
