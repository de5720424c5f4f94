// Package extract runs parameterized queries against the analytical
// database and assembles the streamed result chunks into one logical table.
package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// queryTimeFormat is how timestamp parameters are rendered into SQL text.
const queryTimeFormat = "2006-01-02 15:04:05"

// DbClient is the database capability the executor consumes: run a query,
// stream the result back as tabular chunks.
type DbClient interface {
	QueryStream(ctx context.Context, query string) (RowStream, error)
}

// RowStream yields a query result as a sequence of table chunks. Usage
// follows sql.Rows: Next advances to the next chunk, Err reports any
// streaming failure after Next returns false, Close releases the stream.
type RowStream interface {
	Next() bool
	Chunk() *pipeline.Table
	Err() error
	Close() error
}

// Executor implements the pipeline query contract on top of a DbClient.
type Executor struct {
	client DbClient
}

// NewExecutor creates an Executor backed by the given client.
func NewExecutor(client DbClient) *Executor {
	return &Executor{client: client}
}

// Execute formats params into the query, streams the result and
// concatenates all chunks into a single table. An exhausted stream with no
// rows yields an empty table, not an error.
func (e *Executor) Execute(ctx context.Context, query string, params map[string]any) (*pipeline.Table, error) {
	stream, err := e.client.QueryStream(ctx, FormatQuery(query, params))
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer stream.Close()

	var table *pipeline.Table
	for stream.Next() {
		chunk := stream.Chunk()
		if table == nil {
			table = chunk
			continue
		}
		table.AppendTable(chunk)
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("streaming query result: %w", err)
	}
	if table == nil {
		table = pipeline.NewTable(nil)
	}
	return table, nil
}

// FormatQuery substitutes {name} placeholders in the query text with the
// given parameter values. Timestamps render as "YYYY-MM-DD HH:MM:SS",
// floats in their shortest form.
func FormatQuery(query string, params map[string]any) string {
	replacements := make([]string, 0, 2*len(params))
	for name, value := range params {
		var rendered string
		switch v := value.(type) {
		case time.Time:
			rendered = v.Format(queryTimeFormat)
		case float64:
			rendered = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			rendered = fmt.Sprintf("%v", v)
		}
		replacements = append(replacements, "{"+name+"}", rendered)
	}
	return strings.NewReplacer(replacements...).Replace(query)
}

// ReadQueryFromFile reads SQL query text from a file.
func ReadQueryFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading query file %s: %w", path, err)
	}
	return string(data), nil
}
