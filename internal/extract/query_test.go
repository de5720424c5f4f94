package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

type fakeStream struct {
	chunks []*pipeline.Table
	pos    int
	err    error
	closed bool
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Chunk() *pipeline.Table { return s.chunks[s.pos-1] }
func (s *fakeStream) Err() error             { return s.err }
func (s *fakeStream) Close() error           { s.closed = true; return nil }

type fakeClient struct {
	stream  *fakeStream
	openErr error
	query   string
}

func (c *fakeClient) QueryStream(_ context.Context, query string) (RowStream, error) {
	c.query = query
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.stream, nil
}

func chunk(rows ...pipeline.Record) *pipeline.Table {
	t := pipeline.NewTable([]string{"idzone", "goal"})
	t.Append(rows...)
	return t
}

func TestExecuteConcatenatesChunks(t *testing.T) {
	stream := &fakeStream{chunks: []*pipeline.Table{
		chunk(pipeline.Record{"idzone": int64(1), "goal": int64(0)}, pipeline.Record{"idzone": int64(2), "goal": int64(1)}),
		chunk(pipeline.Record{"idzone": int64(3), "goal": int64(0)}),
	}}
	client := &fakeClient{stream: stream}

	table, err := NewExecutor(client).Execute(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, []string{"idzone", "goal"}, table.Columns)
	assert.True(t, stream.closed)
}

func TestExecuteEmptyStream(t *testing.T) {
	client := &fakeClient{stream: &fakeStream{}}

	table, err := NewExecutor(client).Execute(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.NumRows())
}

func TestExecuteStreamError(t *testing.T) {
	client := &fakeClient{stream: &fakeStream{err: errors.New("socket closed")}}

	_, err := NewExecutor(client).Execute(context.Background(), "SELECT 1", nil)
	require.ErrorContains(t, err, "socket closed")
}

func TestExecuteOpenError(t *testing.T) {
	client := &fakeClient{openErr: errors.New("unauthorized")}

	_, err := NewExecutor(client).Execute(context.Background(), "SELECT 1", nil)
	require.ErrorContains(t, err, "unauthorized")
}

func TestExecuteFormatsParams(t *testing.T) {
	client := &fakeClient{stream: &fakeStream{}}
	params := map[string]any{
		"start_time":               time.Date(2023, 1, 1, 0, 30, 0, 0, time.UTC),
		"down_sampling_percentage": 0.01,
	}

	_, err := NewExecutor(client).Execute(context.Background(),
		"SELECT * FROM events WHERE date_time >= '{start_time}' AND x <= {down_sampling_percentage}", params)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM events WHERE date_time >= '2023-01-01 00:30:00' AND x <= 0.01", client.query)
}

func TestFormatQuery(t *testing.T) {
	query := FormatQuery("{a} {b} {c}", map[string]any{
		"a": time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC),
		"b": 0.5,
		"c": 8,
	})
	assert.Equal(t, "2022-12-31 23:59:59 0.5 8", query)
}
