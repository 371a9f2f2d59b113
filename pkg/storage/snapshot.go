package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/andeanbio/biomon/pkg/api"
)

// SnapshotStats summarizes what the local snapshot holds.
type SnapshotStats struct {
	PostCount    int
	SpeciesCount int
	FetchedAt    time.Time // zero when no snapshot was ever taken
}

// ReplaceSnapshot swaps the stored lists for the given ones in a single
// transaction and stamps the fetch time.
func (d *DB) ReplaceSnapshot(ctx context.Context, posts []api.Post, species []api.Species, fetchedAt time.Time) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM species"); err != nil {
		return err
	}

	for _, s := range species {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO species(id, scientific_name, common_name, family) VALUES(?,?,?,?)`,
			s.ID, s.ScientificName, s.CommonName, s.Family); err != nil {
			return err
		}
	}

	for _, p := range posts {
		var createdAt interface{}
		if !p.CreatedAt.IsZero() {
			createdAt = p.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO posts(id, content, user_email, user_name, latitude, longitude, species, created_at, likes, comments)
			 VALUES(?,?,?,?,?,?,?,?,?,?)`,
			p.ID, p.Content, p.UserEmail, p.UserName, p.Location.Latitude, p.Location.Longitude,
			p.Species, createdAt, p.Likes, p.Comments); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta(id, fetched_at) VALUES(1, ?)
		 ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		fetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored lists. An empty database returns empty
// lists, not an error.
func (d *DB) LoadSnapshot(ctx context.Context) ([]api.Post, []api.Species, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, scientific_name, common_name, family FROM species ORDER BY id")
	if err != nil {
		return nil, nil, err
	}

	var species []api.Species
	for rows.Next() {
		var s api.Species
		if err := rows.Scan(&s.ID, &s.ScientificName, &s.CommonName, &s.Family); err != nil {
			rows.Close()
			return nil, nil, err
		}
		species = append(species, s)
	}
	if err := rows.Close(); err != nil {
		return nil, nil, err
	}

	rows, err = d.sql.QueryContext(ctx,
		"SELECT id, content, user_email, user_name, latitude, longitude, species, created_at, likes, comments FROM posts")
	if err != nil {
		return nil, nil, err
	}

	var posts []api.Post
	for rows.Next() {
		var (
			p         api.Post
			createdAt sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Content, &p.UserEmail, &p.UserName,
			&p.Location.Latitude, &p.Location.Longitude, &p.Species,
			&createdAt, &p.Likes, &p.Comments); err != nil {
			rows.Close()
			return nil, nil, err
		}
		if createdAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
				p.CreatedAt = t
			}
		}
		posts = append(posts, p)
	}
	if err := rows.Close(); err != nil {
		return nil, nil, err
	}

	return posts, species, nil
}

// Stats reports row counts and the age of the snapshot.
func (d *DB) Stats(ctx context.Context) (SnapshotStats, error) {
	var stats SnapshotStats

	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&stats.PostCount); err != nil {
		return stats, err
	}
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM species").Scan(&stats.SpeciesCount); err != nil {
		return stats, err
	}

	var fetchedAt sql.NullString
	err := d.sql.QueryRowContext(ctx, "SELECT fetched_at FROM snapshot_meta WHERE id = 1").Scan(&fetchedAt)
	if err != nil && err != sql.ErrNoRows {
		return stats, err
	}
	if fetchedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt.String); err == nil {
			stats.FetchedAt = t
		}
	}

	return stats, nil
}
