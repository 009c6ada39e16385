package reconcile

import (
	"database/sql"
	"fmt"
	"sort"
)

// Key is the composite identity of a record.
type Key struct {
	// Code is the department code.
	Code string `json:"code"`

	// Job is the department job.
	Job string `json:"job"`
}

// String returns the key in "code/job" form for logs and error messages.
func (k Key) String() string {
	return k.Code + "/" + k.Job
}

// Less orders keys by code, then job.
func (k Key) Less(other Key) bool {
	if k.Code != other.Code {
		return k.Code < other.Code
	}
	return k.Job < other.Job
}

// Record is a Key plus its optional description.
// Description distinguishes NULL (Valid=false) from the empty string.
// Record is comparable and can be used directly as a map key.
type Record struct {
	Key         Key
	Description sql.NullString
}

// NewRecord builds a record with a non-null description.
func NewRecord(code, job, description string) Record {
	return Record{
		Key:         Key{Code: code, Job: job},
		Description: sql.NullString{String: description, Valid: true},
	}
}

// NewNullRecord builds a record whose description is NULL.
func NewNullRecord(code, job string) Record {
	return Record{Key: Key{Code: code, Job: job}}
}

// String renders the record for debug logging.
func (r Record) String() string {
	if !r.Description.Valid {
		return fmt.Sprintf("%s=<null>", r.Key)
	}
	return fmt.Sprintf("%s=%q", r.Key, r.Description.String)
}

// RecordSet is a set of records keyed by full record value.
type RecordSet map[Record]struct{}

// Add inserts a record into the set.
func (s RecordSet) Add(r Record) {
	s[r] = struct{}{}
}

// Remove deletes a record from the set.
func (s RecordSet) Remove(r Record) {
	delete(s, r)
}

// Contains reports whether the record is in the set.
func (s RecordSet) Contains(r Record) bool {
	_, ok := s[r]
	return ok
}

// Records returns the set members sorted by key.
func (s RecordSet) Records() []Record {
	out := make([]Record, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sortRecords(out)
	return out
}

// ChangeSet is the delete/update/insert partition that brings a target in
// line with a source.
type ChangeSet struct {
	// ToDelete holds target records whose key is absent from the source.
	ToDelete RecordSet

	// ToUpdate holds source records whose key exists in the target with a
	// different description.
	ToUpdate RecordSet

	// ToInsert holds source records whose key is absent from the target.
	ToInsert RecordSet
}

// NewChangeSet returns a change set with all three sets allocated.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		ToDelete: RecordSet{},
		ToUpdate: RecordSet{},
		ToInsert: RecordSet{},
	}
}

// IsEmpty reports whether the change set has nothing to apply.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.ToDelete) == 0 && len(c.ToUpdate) == 0 && len(c.ToInsert) == 0
}

// Len returns the total number of statements the change set implies.
func (c *ChangeSet) Len() int {
	return len(c.ToDelete) + len(c.ToUpdate) + len(c.ToInsert)
}

// Summary returns aggregate counts for reporting.
func (c *ChangeSet) Summary() PlanSummary {
	return PlanSummary{
		Deletes: len(c.ToDelete),
		Updates: len(c.ToUpdate),
		Inserts: len(c.ToInsert),
	}
}

// PlanSummary provides aggregate statistics for a change set.
type PlanSummary struct {
	// Deletes counts records to remove from the target.
	Deletes int `json:"deletes"`

	// Updates counts records whose description changes.
	Updates int `json:"updates"`

	// Inserts counts records to add to the target.
	Inserts int `json:"inserts"`
}

// Total returns the number of planned statements.
func (s PlanSummary) Total() int {
	return s.Deletes + s.Updates + s.Inserts
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key.Less(records[j].Key)
	})
}
