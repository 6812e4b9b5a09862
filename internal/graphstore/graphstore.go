// Package graphstore is the thin Neo4j client of spec.md §4.5: every
// write in the pipeline flows through ExecuteQuery/ExecuteWrite so that
// loaders never hold a raw driver session.
package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/edgarintel/pipeline/internal/logger"
	"github.com/edgarintel/pipeline/internal/trace"
)

// Row is a single returned record, keyed by Cypher return alias.
type Row map[string]any

// WriteSummary reports the mutation counters of a write query, the
// detail loaders use to confirm MERGE actually created vs. matched.
type WriteSummary struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// Store wraps a neo4j.DriverWithContext, exposing only parameterized
// query/write primitives per spec.md §4.5.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// New dials Neo4j at uri with basic auth and verifies connectivity.
func New(ctx context.Context, uri, username, password, database string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphstore: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("graphstore: verify connectivity: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Store{driver: driver, database: database}, nil
}

// Close releases the underlying driver's connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// ExecuteQuery runs a read-only Cypher statement and returns its rows.
func (s *Store) ExecuteQuery(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	ctx, span := trace.StartSpan(ctx, "graphstore.ExecuteQuery")
	defer span.End()

	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
	if err != nil {
		logger.Warn(ctx, "graphstore query failed", "error", err, "cypher", cypher)
		return nil, fmt.Errorf("graphstore: query: %w", err)
	}

	rows := make([]Row, 0, len(result.Records))
	for _, rec := range result.Records {
		row := Row{}
		for i, key := range rec.Keys {
			row[key] = rec.Values[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExecuteWriteQuery runs a mutating Cypher statement that also RETURNs
// rows (the common MERGE ... RETURN id shape entityloader needs to learn
// the id of the node it just ensured).
func (s *Store) ExecuteWriteQuery(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	return s.ExecuteQuery(ctx, cypher, params)
}

// ExecuteWrite runs a mutating Cypher statement (expected to use MERGE
// with ON CREATE/ON MATCH per spec.md §4.5) and returns its summary
// counters.
func (s *Store) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (WriteSummary, error) {
	ctx, span := trace.StartSpan(ctx, "graphstore.ExecuteWrite")
	defer span.End()

	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
	if err != nil {
		logger.Warn(ctx, "graphstore write failed", "error", err, "cypher", cypher)
		return WriteSummary{}, fmt.Errorf("graphstore: write: %w", err)
	}

	counters := result.Summary.Counters()
	return WriteSummary{
		NodesCreated:         counters.NodesCreated(),
		NodesDeleted:         counters.NodesDeleted(),
		RelationshipsCreated: counters.RelationshipsCreated(),
		RelationshipsDeleted: counters.RelationshipsDeleted(),
		PropertiesSet:        counters.PropertiesSet(),
	}, nil
}

// QueryRows is a convenience wrapper returning the first row's requested
// field, or a zero value when the query yielded nothing (common for
// MERGE...RETURN id patterns in entityloader).
func QueryRows[T any](rows []Row, key string) (T, bool) {
	var zero T
	if len(rows) == 0 {
		return zero, false
	}
	v, ok := rows[0][key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
