package reconcile

// Diff computes the change set that brings target in line with source.
//
// Only the smaller collection is iterated. Every record of the larger one is
// first assumed missing from the smaller, and the assumption is corrected as
// keys match, so the work is one pass over the smaller side plus a seeding
// copy of the larger. A nil collection is treated as empty. Returns
// ErrNoChanges when nothing differs.
func Diff(source, target *Collection) (*ChangeSet, error) {
	source, target = orEmpty(source), orEmpty(target)

	var cs *ChangeSet
	if source.Len() < target.Len() {
		cs = diffBySource(source, target)
	} else {
		cs = diffByTarget(source, target)
	}

	if cs.IsEmpty() {
		return nil, ErrNoChanges
	}
	return cs, nil
}

// diffBySource walks the source; target records start out as deletions.
func diffBySource(source, target *Collection) *ChangeSet {
	cs := &ChangeSet{
		ToDelete: target.valueSet(),
		ToUpdate: RecordSet{},
		ToInsert: RecordSet{},
	}

	for key, src := range source.records {
		tgt, ok := target.records[key]
		if !ok {
			cs.ToInsert.Add(src)
			continue
		}
		cs.ToDelete.Remove(tgt)
		if src != tgt {
			cs.ToUpdate.Add(src)
		}
	}
	return cs
}

// diffByTarget walks the target; source records start out as insertions.
// Updates still carry the source record.
func diffByTarget(source, target *Collection) *ChangeSet {
	cs := &ChangeSet{
		ToDelete: RecordSet{},
		ToUpdate: RecordSet{},
		ToInsert: source.valueSet(),
	}

	for key, tgt := range target.records {
		src, ok := source.records[key]
		if !ok {
			cs.ToDelete.Add(tgt)
			continue
		}
		cs.ToInsert.Remove(src)
		if src != tgt {
			cs.ToUpdate.Add(src)
		}
	}
	return cs
}

func orEmpty(c *Collection) *Collection {
	if c == nil {
		return &Collection{records: map[Key]Record{}}
	}
	return c
}
