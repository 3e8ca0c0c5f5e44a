package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/graph"
	"github.com/inodb/featgraph/internal/interval"
)

const featureColumns = `unique_id, line, seq_id, source, type, start_pos, end_pos,
		score, strand, phase, feature_id, attributes`

// WriteGraph replaces the stored graph with g. The features, edges and
// sources tables are cleared and refilled in one transaction on a single
// connection: features through a prepared insert, edges through the Appender
// API. Recorded source fingerprints are dropped, since they described the
// graph being replaced.
func (s *Store) WriteGraph(g *graph.Graph) (err error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	for _, table := range []string{"sources", "edges", "features"} {
		if _, err := conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := writeFeatures(ctx, conn, g.Features()); err != nil {
		return err
	}
	if err := writeEdges(conn, g.Edges()); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit graph: %w", err)
	}
	return nil
}

func writeFeatures(ctx context.Context, conn *sql.Conn, features []*feature.Feature) error {
	stmt, err := conn.PrepareContext(ctx, `INSERT INTO features (`+featureColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		var score sql.NullFloat64
		if f.Score != nil {
			score = sql.NullFloat64{Float64: *f.Score, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			f.UniqueID(), int64(f.Line), f.SeqID, f.Source, f.Type,
			f.Interval.Start(), f.Interval.End(),
			score, f.Strand.String(), f.Phase, f.ID(), f.Attributes.String(),
		); err != nil {
			return fmt.Errorf("insert feature at line %d: %w", f.Line, err)
		}
	}
	return nil
}

func writeEdges(conn *sql.Conn, edges []graph.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "edges")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for _, e := range edges {
		if err := appender.AppendRow(e.Parent, e.Child); err != nil {
			appender.Close()
			return fmt.Errorf("append edge: %w", err)
		}
	}
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush edges: %w", err)
	}
	return nil
}

// FeatureCount returns the number of stored features.
func (s *Store) FeatureCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM features").Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// FeaturesByType returns stored features of the given type in file order.
func (s *Store) FeaturesByType(typ string) ([]*feature.Feature, error) {
	rows, err := s.db.Query(`SELECT `+featureColumns+`
		FROM features WHERE type=? ORDER BY line`, typ)
	if err != nil {
		return nil, fmt.Errorf("query by type: %w", err)
	}
	defer rows.Close()

	return scanFeatures(rows)
}

// Children returns the stored children of the feature with unique id uid.
func (s *Store) Children(uid string) ([]*feature.Feature, error) {
	rows, err := s.db.Query(`SELECT `+prefixed("f")+`
		FROM edges e JOIN features f ON f.unique_id = e.child_uid
		WHERE e.parent_uid=? ORDER BY f.line`, uid)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	return scanFeatures(rows)
}

// Overlapping returns stored features on seqID that share a position with
// the 1-based closed range start..end, ordered by start.
func (s *Store) Overlapping(seqID string, start, end int64) ([]*feature.Feature, error) {
	rows, err := s.db.Query(`SELECT `+featureColumns+`
		FROM features
		WHERE seq_id=? AND start_pos<=? AND end_pos>=?
		ORDER BY start_pos, line`, seqID, end, start)
	if err != nil {
		return nil, fmt.Errorf("query overlapping: %w", err)
	}
	defer rows.Close()

	return scanFeatures(rows)
}

// Edges returns the stored parent/child edges.
func (s *Store) Edges() ([]graph.Edge, error) {
	rows, err := s.db.Query("SELECT parent_uid, child_uid FROM edges ORDER BY parent_uid, child_uid")
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Parent, &e.Child); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return edges, nil
}

func prefixed(alias string) string {
	return alias + ".unique_id, " + alias + ".line, " + alias + ".seq_id, " +
		alias + ".source, " + alias + ".type, " + alias + ".start_pos, " +
		alias + ".end_pos, " + alias + ".score, " + alias + ".strand, " +
		alias + ".phase, " + alias + ".feature_id, " + alias + ".attributes"
}

// scanFeatures rebuilds features from rows. Each feature is rebound without
// an owner, which derives the same unique id it was stored under.
func scanFeatures(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*feature.Feature, error) {
	var features []*feature.Feature
	for rows.Next() {
		var (
			uid, seqID, source, typ, strand, id, attrs string
			line, start, end                           int64
			score                                      sql.NullFloat64
			phase                                      int8
		)
		if err := rows.Scan(&uid, &line, &seqID, &source, &typ, &start, &end,
			&score, &strand, &phase, &id, &attrs); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}

		iv, err := interval.NewOn(seqID, start, end)
		if err != nil {
			return nil, fmt.Errorf("stored feature %s: %w", uid, err)
		}
		st, err := feature.ParseStrand(strand)
		if err != nil {
			return nil, fmt.Errorf("stored feature %s: %w", uid, err)
		}

		f := &feature.Feature{
			SeqID:      seqID,
			Source:     source,
			Type:       typ,
			Interval:   iv,
			Strand:     st,
			Phase:      phase,
			Attributes: feature.ParseAttributes(attrs),
			Line:       int(line),
		}
		if score.Valid {
			v := score.Float64
			f.Score = &v
		}
		f.Bind(nil)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return features, nil
}
