package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRename(t *testing.T) {
	table := NewTable([]string{"idos", "goal", "city"})
	table.Append(Record{"idos": int64(3), "goal": int64(1), "city": "paris"})

	table.Rename(map[string]string{"idos": "os", "goal": "conversion_status"})

	assert.Equal(t, []string{"os", "conversion_status", "city"}, table.Columns)
	assert.Equal(t, int64(3), table.Rows[0]["os"])
	assert.Equal(t, int64(1), table.Rows[0]["conversion_status"])
	assert.NotContains(t, table.Rows[0], "idos")
	assert.NotContains(t, table.Rows[0], "goal")
}

func TestTableDrop(t *testing.T) {
	table := NewTable([]string{"a", "b", "c"})
	table.Append(Record{"a": int64(1), "b": int64(2), "c": int64(3)})

	table.Drop("a", "c")

	assert.Equal(t, []string{"b"}, table.Columns)
	assert.Equal(t, Record{"b": int64(2)}, table.Rows[0])
}

func TestTableAppendTable(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	table.Append(Record{"a": int64(1), "b": int64(2)})

	other := NewTable([]string{"a", "b", "c"})
	other.Append(Record{"a": int64(3), "b": int64(4), "c": int64(5)})

	table.AppendTable(other)

	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"a", "b", "c"}, table.Columns)
	assert.Equal(t, int64(5), table.Rows[1]["c"])
}

func TestTableAddColumnIdempotent(t *testing.T) {
	table := NewTable([]string{"a"})
	table.AddColumn("b")
	table.AddColumn("b")

	assert.Equal(t, []string{"a", "b"}, table.Columns)
}
