package reconcile

// Collection is a duplicate-free mapping from Key to Record representing one
// snapshot of either the store or a file. It is read-only once built.
type Collection struct {
	records map[Key]Record
}

// NewCollection builds a collection from records, failing on the first
// duplicate key.
func NewCollection(records ...Record) (*Collection, error) {
	b := NewBuilder(len(records))
	for _, r := range records {
		if err := b.Add(r); err != nil {
			return nil, err
		}
	}
	return b.Collection(), nil
}

// MustCollection is NewCollection for fixtures known to be duplicate-free.
func MustCollection(records ...Record) *Collection {
	c, err := NewCollection(records...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Get returns the record stored under key.
func (c *Collection) Get(key Key) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	r, ok := c.records[key]
	return r, ok
}

// Has reports whether key is present.
func (c *Collection) Has(key Key) bool {
	_, ok := c.Get(key)
	return ok
}

// Records returns all records sorted by key.
func (c *Collection) Records() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	sortRecords(out)
	return out
}

// Equal reports whether both collections hold exactly the same records.
func (c *Collection) Equal(other *Collection) bool {
	if c.Len() != other.Len() {
		return false
	}
	if c.Len() == 0 {
		return true
	}
	for k, r := range c.records {
		o, ok := other.records[k]
		if !ok || o != r {
			return false
		}
	}
	return true
}

// valueSet copies the collection's records into a fresh RecordSet.
func (c *Collection) valueSet() RecordSet {
	set := make(RecordSet, c.Len())
	if c == nil {
		return set
	}
	for _, r := range c.records {
		set.Add(r)
	}
	return set
}

// Builder accumulates records into a Collection, enforcing key uniqueness.
type Builder struct {
	records map[Key]Record
}

// NewBuilder returns a builder sized for n records.
func NewBuilder(n int) *Builder {
	return &Builder{records: make(map[Key]Record, n)}
}

// Add appends a record. A second record with the same key is rejected with a
// *DuplicateKeyError and leaves the builder unchanged.
func (b *Builder) Add(r Record) error {
	if _, exists := b.records[r.Key]; exists {
		return &DuplicateKeyError{Key: r.Key}
	}
	b.records[r.Key] = r
	return nil
}

// Len returns the number of records added so far.
func (b *Builder) Len() int {
	return len(b.records)
}

// Collection finalizes the builder. The builder must not be reused.
func (b *Builder) Collection() *Collection {
	c := &Collection{records: b.records}
	b.records = nil
	return c
}
