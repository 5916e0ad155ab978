package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/scribe/internal/ir"
)

// Entry is one memoized element layout.
type Entry struct {
	Key        string
	Kind       string
	Fragments  ir.IRArray
	Constraint ir.IRArray
	Seq        int64
}

// PutLayout writes or replaces the entry for e.Key. Seq is assigned by the
// store.
func (s *Store) PutLayout(ctx context.Context, e Entry) error {
	fragments, err := marshalArray("fragments", e.Fragments)
	if err != nil {
		return fmt.Errorf("put layout: %w", err)
	}
	constraint, err := marshalArray("constraint", e.Constraint)
	if err != nil {
		return fmt.Errorf("put layout: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layout_cache
		(key, kind, fragments, constraint_ir, layout_version, engine_version, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			kind = excluded.kind,
			fragments = excluded.fragments,
			constraint_ir = excluded.constraint_ir,
			layout_version = excluded.layout_version,
			engine_version = excluded.engine_version,
			seq = excluded.seq
	`,
		e.Key,
		e.Kind,
		fragments,
		constraint,
		ir.LayoutVersion,
		ir.EngineVersion,
		s.seq.Add(1),
	)
	if err != nil {
		return fmt.Errorf("put layout: %w", err)
	}
	return nil
}

// GetLayout returns the entry for key. The boolean is false when no row
// exists or the row was written by another layout or engine version.
func (s *Store) GetLayout(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e                        Entry
		fragments, constraint    string
		layoutVer, engineVersion string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT key, kind, fragments, constraint_ir, layout_version, engine_version, seq
		FROM layout_cache
		WHERE key = ?
	`, key).Scan(&e.Key, &e.Kind, &fragments, &constraint, &layoutVer, &engineVersion, &e.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get layout: %w", err)
	}
	if layoutVer != ir.LayoutVersion || engineVersion != ir.EngineVersion {
		return Entry{}, false, nil
	}

	if e.Fragments, err = unmarshalArray("fragments", fragments); err != nil {
		return Entry{}, false, fmt.Errorf("get layout %s: %w", key, err)
	}
	if e.Constraint, err = unmarshalArray("constraint", constraint); err != nil {
		return Entry{}, false, fmt.Errorf("get layout %s: %w", key, err)
	}
	return e, true, nil
}

// DeleteLayout removes the entry for key, if any.
func (s *Store) DeleteLayout(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM layout_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

// CountLayouts returns the number of stored entries per element kind.
func (s *Store) CountLayouts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM layout_cache
		GROUP BY kind
		ORDER BY kind COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count layouts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("count layouts: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate layouts: %w", err)
	}
	return counts, nil
}

// PruneLayouts keeps the newest keep entries by seq and deletes the rest.
// Returns the number of rows deleted.
func (s *Store) PruneLayouts(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM layout_cache
		WHERE key NOT IN (
			SELECT key FROM layout_cache
			ORDER BY seq DESC, key COLLATE BINARY ASC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune layouts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune layouts: %w", err)
	}
	return n, nil
}
