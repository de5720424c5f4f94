// Package storage persists logical tables as parquet partitions, on the
// local filesystem or in an S3 bucket.
package storage

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// readBatchSize is the number of rows pulled per parquet read call.
const readBatchSize = 1024

// schemaOf derives a parquet schema from the table's column value types.
// The first non-nil value of each column decides the physical type; columns
// with no values fall back to UTF8. All fields are optional.
func schemaOf(t *pipeline.Table) (*parquet.Schema, error) {
	group := parquet.Group{}
	for _, column := range t.Columns {
		node, err := nodeOf(sampleValue(t, column))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		group[column] = parquet.Optional(node)
	}
	return parquet.NewSchema("events", group), nil
}

func sampleValue(t *pipeline.Table, column string) any {
	for _, row := range t.Rows {
		if v, ok := row[column]; ok && v != nil {
			return v
		}
	}
	return ""
}

func nodeOf(v any) (parquet.Node, error) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		return parquet.Int(64), nil
	case float32, float64:
		return parquet.Leaf(parquet.DoubleType), nil
	case bool:
		return parquet.Leaf(parquet.BooleanType), nil
	case string:
		return parquet.String(), nil
	case time.Time:
		return parquet.Timestamp(parquet.Millisecond), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// normalize widens a row's values to the types the schema was built with.
func normalize(row pipeline.Record) map[string]any {
	out := make(map[string]any, len(row))
	for column, v := range row {
		switch n := v.(type) {
		case int:
			out[column] = int64(n)
		case int8:
			out[column] = int64(n)
		case int16:
			out[column] = int64(n)
		case int32:
			out[column] = int64(n)
		case uint8:
			out[column] = int64(n)
		case uint16:
			out[column] = int64(n)
		case uint32:
			out[column] = int64(n)
		case uint64:
			out[column] = int64(n)
		case float32:
			out[column] = float64(n)
		default:
			out[column] = v
		}
	}
	return out
}

// writeTable serializes the table to parquet.
func writeTable(w io.Writer, t *pipeline.Table) error {
	schema, err := schemaOf(t)
	if err != nil {
		return err
	}
	writer := parquet.NewGenericWriter[map[string]any](w, schema)
	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = normalize(row)
	}
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return fmt.Errorf("writing parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

// readTable deserializes one parquet partition back into a table. Column
// order follows the file schema.
func readTable(r io.ReaderAt) (*pipeline.Table, error) {
	reader := parquet.NewGenericReader[map[string]any](r)
	defer reader.Close()

	columns := make([]string, 0)
	for _, field := range reader.Schema().Fields() {
		columns = append(columns, field.Name())
	}
	table := pipeline.NewTable(columns)

	for {
		batch := make([]map[string]any, readBatchSize)
		for i := range batch {
			batch[i] = make(map[string]any)
		}
		n, err := reader.Read(batch)
		for i := 0; i < n; i++ {
			table.Append(pipeline.Record(batch[i]))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
	}
	return table, nil
}
