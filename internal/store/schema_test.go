package store

import (
	"testing"

	"entgo.io/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/ent/schema"
)

type entSchema interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
}

func columns(t *testing.T, s *Store, table string) map[string]bool {
	t.Helper()
	rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestMigrationMatchesEntSchema(t *testing.T) {
	s := openTestStore(t)

	tables := map[string]entSchema{
		"answer_events":  schema.AnswerEvent{},
		"session_events": schema.SessionEvent{},
		"snapshots":      schema.Snapshot{},
	}
	for table, sch := range tables {
		t.Run(table, func(t *testing.T) {
			cols := columns(t, s, table)

			fields := sch.Fields()
			for _, m := range sch.Mixin() {
				fields = append(fields, m.Fields()...)
			}
			require.NotEmpty(t, fields)

			for _, f := range fields {
				name := f.Descriptor().Name
				assert.True(t, cols[name], "column %s missing from %s", name, table)
			}
			// Schema fields plus the id column.
			assert.Len(t, cols, len(fields)+1)
		})
	}
}
