// Package graphstore exports reference graphs and their cycles to Neo4j.
package graphstore

import (
	"context"
	"slices"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"

	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/graph"
)

const batchSize = 1000

// Loader loads reference graph data into a Neo4j database using batch
// UNWIND queries.
type Loader struct {
	driver neo4j.DriverWithContext
}

// NewLoader connects to Neo4j and returns a ready-to-use loader.
func NewLoader(uri, user, password string) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create neo4j driver")
	}
	return &Loader{driver: driver}, nil
}

// Verify checks that the database is reachable.
func (l *Loader) Verify(ctx context.Context) error {
	return errors.Wrap(l.driver.VerifyConnectivity(ctx), "neo4j is not reachable")
}

// Close releases the underlying Neo4j driver resources.
func (l *Loader) Close(ctx context.Context) error {
	return errors.WithStack(l.driver.Close(ctx))
}

// runCypher runs a single Cypher statement with optional parameters.
func (l *Loader) runCypher(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return errors.Wrapf(err, "running cypher: %s", firstLine(cypher))
}

// runBatches runs an UNWIND statement over rows, batchSize rows at a time.
func (l *Loader) runBatches(ctx context.Context, cypher string, rows []map[string]any) error {
	for batch := range slices.Chunk(rows, batchSize) {
		if err := l.runCypher(ctx, cypher, map[string]any{"batch": batch}); err != nil {
			return err
		}
	}
	return nil
}

// CleanGraph removes all previously exported reference data.
func (l *Loader) CleanGraph(ctx context.Context) error {
	grip.Info("cleaning existing reference graph data")
	queries := []string{
		"MATCH ()-[r:REFERENCES]->() DELETE r",
		"MATCH ()-[r:STEP]->() DELETE r",
		"MATCH (n:RefCycle) DETACH DELETE n",
		"MATCH (n:RefType) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (l *Loader) CreateIndexes(ctx context.Context) error {
	grip.Info("creating indexes")
	indexes := []string{
		"CREATE INDEX ref_type_key IF NOT EXISTS FOR (n:RefType) ON (n.key)",
		"CREATE INDEX ref_cycle_key IF NOT EXISTS FOR (n:RefCycle) ON (n.key)",
	}
	for _, q := range indexes {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadTypes upserts RefType nodes for every node of g.
func (l *Loader) LoadTypes(ctx context.Context, g *graph.Graph) error {
	rows := TypeRows(g)
	grip.Info(message.Fields{"message": "loading types", "count": len(rows)})
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MERGE (n:RefType {key: row.key})
		 SET n.name = row.name, n.arity = row.arity, n.kind = row.kind,
		     n.declared = row.declared, n.pos = row.pos`,
		rows,
	)
}

// LoadReferences upserts REFERENCES relationships for every edge of g.
// Parallel edges stay distinct through their label and kind.
func (l *Loader) LoadReferences(ctx context.Context, g *graph.Graph) error {
	rows := ReferenceRows(g)
	grip.Info(message.Fields{"message": "loading references", "count": len(rows)})
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MATCH (o:RefType {key: row.origin}), (t:RefType {key: row.target})
		 MERGE (o)-[r:REFERENCES {label: row.label, kind: row.kind}]->(t)`,
		rows,
	)
}

// LoadCycles upserts a RefCycle node per cycle with STEP relationships to
// the origin type of each edge, ordered by seq.
func (l *Loader) LoadCycles(ctx context.Context, res *cycles.Result) error {
	rows := CycleRows(res)
	grip.Info(message.Fields{"message": "loading cycles", "count": len(rows)})
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MERGE (c:RefCycle {key: row.key})
		 SET c.length = row.length, c.types = row.types
		 WITH c, row
		 UNWIND row.steps AS step
		 MATCH (t:RefType {key: step.origin})
		 MERGE (c)-[s:STEP {seq: step.seq}]->(t)
		 SET s.label = step.label, s.kind = step.kind, s.target = step.target`,
		rows,
	)
}

// Export writes g and res in one go, cleaning first when asked.
func (l *Loader) Export(ctx context.Context, g *graph.Graph, res *cycles.Result, clean bool) error {
	if clean {
		if err := l.CleanGraph(ctx); err != nil {
			return err
		}
	}
	if err := l.CreateIndexes(ctx); err != nil {
		return err
	}
	if err := l.LoadTypes(ctx, g); err != nil {
		return err
	}
	if err := l.LoadReferences(ctx, g); err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return l.LoadCycles(ctx, res)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
