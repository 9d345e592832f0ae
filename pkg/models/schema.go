package models

import (
	"sort"
	"time"
)

// ColumnSchema describes a single column as reported by the target
// database catalog.
type ColumnSchema struct {
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default"`
}

// TableSchema holds the columns of one table. ColumnOrder preserves the
// catalog's ordinal position since Go maps do not keep insertion order.
type TableSchema struct {
	Columns     map[string]ColumnSchema `json:"columns"`
	ColumnOrder []string                `json:"column_order"`
}

// SchemaSnapshot is an immutable description of a database's tables at
// extraction time. A re-extraction always produces a new snapshot;
// existing snapshots are never mutated.
type SchemaSnapshot struct {
	Tables      map[string]TableSchema `json:"tables"`
	ExtractedAt time.Time              `json:"extracted_at"`
}

// TableNames returns the snapshot's table names in ascending order.
func (s *SchemaSnapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTable reports whether the snapshot contains the named table.
func (s *SchemaSnapshot) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// HasColumn reports whether the named table contains the named column.
func (s *SchemaSnapshot) HasColumn(table, column string) bool {
	t, ok := s.Tables[table]
	if !ok {
		return false
	}
	_, ok = t.Columns[column]
	return ok
}

// Clone returns a deep copy. Callers that hand a snapshot across an
// ownership boundary clone it so the original stays immutable.
func (s *SchemaSnapshot) Clone() *SchemaSnapshot {
	if s == nil {
		return nil
	}
	out := &SchemaSnapshot{
		Tables:      make(map[string]TableSchema, len(s.Tables)),
		ExtractedAt: s.ExtractedAt,
	}
	for name, table := range s.Tables {
		cols := make(map[string]ColumnSchema, len(table.Columns))
		for colName, col := range table.Columns {
			if col.Default != nil {
				def := *col.Default
				col.Default = &def
			}
			cols[colName] = col
		}
		order := make([]string, len(table.ColumnOrder))
		copy(order, table.ColumnOrder)
		out.Tables[name] = TableSchema{Columns: cols, ColumnOrder: order}
	}
	return out
}
