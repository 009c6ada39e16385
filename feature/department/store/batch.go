package store

import (
	"fmt"

	"datasync/core/reconcile"
	"datasync/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opDelete = "delete"
	opUpdate = "update"
	opInsert = "insert"
)

// statement is one queued mutation.
type statement struct {
	op     string
	record reconcile.Record
}

// batch buffers statements and sends them in groups inside a transaction.
// On flush, runs of deletes become one DELETE ... IN and runs of inserts one
// multi-row INSERT; updates go one per row.
type batch struct {
	store    *Store
	tx       *gorm.DB
	size     int
	pending  []statement
	executed int
	trips    int
}

func newBatch(s *Store, tx *gorm.DB, size int) *batch {
	return &batch{
		store:   s,
		tx:      tx,
		size:    size,
		pending: make([]statement, 0, size),
	}
}

// add queues a statement and flushes once the batch is full.
func (b *batch) add(op string, r reconcile.Record) error {
	b.pending = append(b.pending, statement{op: op, record: r})
	if len(b.pending) >= b.size {
		return b.flush()
	}
	return nil
}

// flush sends every pending statement, merging consecutive deletes and
// consecutive inserts.
func (b *batch) flush() error {
	if len(b.pending) == 0 {
		return nil
	}

	sent := len(b.pending)
	for start := 0; start < len(b.pending); {
		end := start + 1
		op := b.pending[start].op
		for op != opUpdate && end < len(b.pending) && b.pending[end].op == op {
			end++
		}

		group := b.pending[start:end]
		if err := b.send(op, group); err != nil {
			return fmt.Errorf("%s (%s): %w", describe(op, group), numbering(b.executed+1, len(group)), err)
		}
		b.executed += len(group)
		b.trips++
		start = end
	}

	b.store.logger.Debug("Flushed statement batch",
		zap.Int("size", sent),
		zap.Int("executed", b.executed),
		zap.Int("round_trips", b.trips),
	)
	b.pending = b.pending[:0]
	return nil
}

func (b *batch) send(op string, group []statement) error {
	records := make([]reconcile.Record, len(group))
	for i, st := range group {
		records[i] = st.record
	}

	switch op {
	case opDelete:
		return b.store.deleteRows(b.tx, records)
	case opInsert:
		return b.store.insertRows(b.tx, records)
	default:
		return b.store.updateRow(b.tx, records[0])
	}
}

func describe(op string, group []statement) string {
	if len(group) == 1 {
		return fmt.Sprintf("%s %s", op, group[0].record.Key)
	}
	return fmt.Sprintf("%s of %d rows from %s", op, len(group), group[0].record.Key)
}

func numbering(first, n int) string {
	if n == 1 {
		return fmt.Sprintf("statement %d", first)
	}
	return fmt.Sprintf("statements %d-%d", first, first+n-1)
}

// deleteRows removes every record by composite key in one statement.
func (s *Store) deleteRows(tx *gorm.DB, records []reconcile.Record) error {
	keys := make([][]any, 0, len(records))
	for _, r := range records {
		keys = append(keys, []any{r.Key.Code, r.Key.Job})
	}

	return tx.Table(s.cfg.Name).
		Where("(?, ?) IN ?", clause.Column{Name: s.cfg.CodeColumn}, clause.Column{Name: s.cfg.JobColumn}, keys).
		Delete(nil).Error
}

// insertRows writes every record in one multi-row INSERT.
func (s *Store) insertRows(tx *gorm.DB, records []reconcile.Record) error {
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]any{
			s.cfg.CodeColumn:        r.Key.Code,
			s.cfg.JobColumn:         r.Key.Job,
			s.cfg.DescriptionColumn: utils.NullStringValue(r.Description),
		})
	}

	return tx.Table(s.cfg.Name).Create(rows).Error
}

// updateRow sets the description of one record by key.
func (s *Store) updateRow(tx *gorm.DB, r reconcile.Record) error {
	return tx.Exec("UPDATE ? SET ? = ? WHERE ? = ? AND ? = ?",
		clause.Table{Name: s.cfg.Name},
		clause.Column{Name: s.cfg.DescriptionColumn}, utils.NullStringValue(r.Description),
		clause.Column{Name: s.cfg.CodeColumn}, r.Key.Code,
		clause.Column{Name: s.cfg.JobColumn}, r.Key.Job,
	).Error
}
