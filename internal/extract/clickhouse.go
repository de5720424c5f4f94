package extract

import (
	"context"
	"fmt"
	"net"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// defaultChunkSize is the number of rows buffered into one stream chunk.
const defaultChunkSize = 10000

// ClickHouseClient implements DbClient against a ClickHouse server.
type ClickHouseClient struct {
	conn      driver.Conn
	chunkSize int
}

// NewClickHouseClient opens a connection to ClickHouse.
func NewClickHouseClient(host, port, user, password string) (*ClickHouseClient, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{net.JoinHostPort(host, port)},
		Auth: clickhouse.Auth{
			Username: user,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse %s:%s: %w", host, port, err)
	}
	return &ClickHouseClient{conn: conn, chunkSize: defaultChunkSize}, nil
}

// QueryStream runs the query and returns its result as a chunk stream.
func (c *ClickHouseClient) QueryStream(ctx context.Context, query string) (RowStream, error) {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &chRowStream{rows: rows, chunkSize: c.chunkSize}, nil
}

// Close releases the underlying connection.
func (c *ClickHouseClient) Close() error {
	return c.conn.Close()
}

// chRowStream adapts driver.Rows into chunked tables, scanning each row
// through the column scan types reported by the server.
type chRowStream struct {
	rows      driver.Rows
	chunkSize int
	chunk     *pipeline.Table
	err       error
}

func (s *chRowStream) Next() bool {
	if s.err != nil {
		return false
	}
	columns := s.rows.Columns()
	types := s.rows.ColumnTypes()

	chunk := pipeline.NewTable(columns)
	for len(chunk.Rows) < s.chunkSize && s.rows.Next() {
		values := make([]any, len(types))
		for i, t := range types {
			values[i] = reflect.New(t.ScanType()).Interface()
		}
		if err := s.rows.Scan(values...); err != nil {
			s.err = err
			return false
		}
		record := make(pipeline.Record, len(columns))
		for i, column := range columns {
			record[column] = reflect.ValueOf(values[i]).Elem().Interface()
		}
		chunk.Append(record)
	}
	if chunk.NumRows() == 0 {
		return false
	}
	s.chunk = chunk
	return true
}

func (s *chRowStream) Chunk() *pipeline.Table { return s.chunk }

func (s *chRowStream) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}

func (s *chRowStream) Close() error { return s.rows.Close() }
