// Package graph maintains a weighted concept co-occurrence graph in SQLite.
// Terms that appear in the same text are linked; repeated co-occurrence
// increments the edge weight. The graph persists between runs.
package graph

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

// Concept is a graph node label with an accumulated weight. Weight is the
// edge weight for Neighbors and the aggregated relevance for Related.
type Concept struct {
	Label  string
	Weight int
}

// Store encapsulates node and edge persistence.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	label    TEXT PRIMARY KEY,
	mentions INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS edges (
	a      TEXT NOT NULL,
	b      TEXT NOT NULL,
	weight INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (a, b)
);
CREATE INDEX IF NOT EXISTS idx_edges_b ON edges(b);
`

// Open opens (creating if needed) the graph database at path.
// Use ":memory:" for an ephemeral graph.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open graph db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create graph schema: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertEdge adds delta to the weight of the edge between a and b, creating
// nodes and edge as needed. Endpoints are stored in canonical order so the
// edge is undirected.
func (s *Store) UpsertEdge(ctx context.Context, a, b string, delta int) error {
	if a == b {
		return nil
	}
	if a > b {
		a, b = b, a
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertEdgeTx(ctx, tx, a, b, delta); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertEdgeTx(ctx context.Context, tx *sql.Tx, a, b string, delta int) error {
	for _, label := range []string{a, b} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes(label, mentions) VALUES(?, 0)
			ON CONFLICT(label) DO NOTHING;`, label); err != nil {
			return err
		}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO edges(a, b, weight) VALUES(?, ?, ?)
		ON CONFLICT(a, b) DO UPDATE SET weight = weight + excluded.weight;`,
		a, b, delta)
	return err
}

// Update extracts keywords from text, bumps mention counts, and strengthens
// the pairwise edges between all co-occurring keywords by one.
func (s *Store) Update(ctx context.Context, text string) error {
	keywords := ExtractKeywords(text)
	if len(keywords) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, kw := range keywords {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes(label, mentions) VALUES(?, 1)
			ON CONFLICT(label) DO UPDATE SET mentions = mentions + 1;`, kw); err != nil {
			return err
		}
	}

	for i, a := range keywords {
		for _, b := range keywords[i+1:] {
			x, y := a, b
			if x > y {
				x, y = y, x
			}
			if err := upsertEdgeTx(ctx, tx, x, y, 1); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Neighbors returns the nodes adjacent to label ordered by descending edge
// weight, ties broken alphabetically. An unknown label yields no results.
func (s *Store) Neighbors(ctx context.Context, label string, limit int) ([]Concept, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN a = ? THEN b ELSE a END AS other, weight
		FROM edges
		WHERE a = ? OR b = ?
		ORDER BY weight DESC, other ASC
		LIMIT ?;`, label, label, label, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		var c Concept
		if err := rows.Scan(&c.Label, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Related expands every keyword of the query to its neighbors and returns
// the labels with the highest aggregated weight across all keywords,
// descending. Query keywords themselves are excluded. An empty result is
// not an error.
func (s *Store) Related(ctx context.Context, query string, limit int) ([]Concept, error) {
	if limit <= 0 {
		limit = 5
	}
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	inQuery := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		inQuery[kw] = struct{}{}
	}

	totals := make(map[string]int)
	for _, kw := range keywords {
		neighbors, err := s.Neighbors(ctx, kw, 0x7fffffff)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if _, ok := inQuery[n.Label]; ok {
				continue
			}
			totals[n.Label] += n.Weight
		}
	}
	if len(totals) == 0 {
		return nil, nil
	}

	out := make([]Concept, 0, len(totals))
	for label, weight := range totals {
		out = append(out, Concept{Label: label, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopNodes returns the most-mentioned nodes, for inspection commands.
func (s *Store) TopNodes(ctx context.Context, limit int) ([]Concept, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, mentions FROM nodes
		ORDER BY mentions DESC, label ASC
		LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		var c Concept
		if err := rows.Scan(&c.Label, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats reports node and edge counts.
func (s *Store) Stats(ctx context.Context) (nodes, edges int64, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes;`).Scan(&nodes); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges;`).Scan(&edges); err != nil {
		return 0, 0, err
	}
	return nodes, edges, nil
}

// Reset clears all nodes and edges. The only deletion path.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM edges; DELETE FROM nodes;`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
