package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vagas-go/internal/database/migrations"
	"vagas-go/internal/vagas"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase stores library image records and the local usage counter.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

var _ vagas.ImageRecords = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		// Pooled connections all need foreign keys, not just the first one.
		dsn = "file:" + path + "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Library image operations

func (s *SQLiteDatabase) ListImages(ctx context.Context) ([]vagas.LibraryImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, blob_key, custom, created_at FROM library_images ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	var images []vagas.LibraryImage
	index := make(map[string]int)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		index[img.ID] = len(images)
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}

	tagRows, err := s.db.QueryContext(ctx, `SELECT image_id, tag FROM library_image_tags ORDER BY image_id, tag`)
	if err != nil {
		return nil, fmt.Errorf("listing image tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var id, tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning image tag: %w", err)
		}
		if i, ok := index[id]; ok {
			images[i].Tags = append(images[i].Tags, vagas.Tag(tag))
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("listing image tags: %w", err)
	}

	return images, nil
}

func (s *SQLiteDatabase) GetImage(ctx context.Context, id string) (*vagas.LibraryImage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, blob_key, custom, created_at FROM library_images WHERE id = ?`, id)
	img, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}

	tags, err := s.imageTags(ctx, id)
	if err != nil {
		return nil, err
	}
	img.Tags = tags
	return &img, nil
}

func (s *SQLiteDatabase) InsertImage(ctx context.Context, img vagas.LibraryImage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO library_images (id, url, blob_key, custom, created_at) VALUES (?, ?, ?, ?, ?)`,
		img.ID, img.URL, img.BlobKey, img.Custom, img.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting image %s: %w", img.ID, err)
	}

	if err := insertTags(ctx, tx, img.ID, img.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) UpdateImageTags(ctx context.Context, id string, tags []vagas.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM library_images WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking image %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("image %s: %w", id, vagas.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM library_image_tags WHERE image_id = ?`, id); err != nil {
		return fmt.Errorf("clearing tags of %s: %w", id, err)
	}
	if err := insertTags(ctx, tx, id, tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteImage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM library_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting image %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting image %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("image %s: %w", id, vagas.ErrNotFound)
	}
	return nil
}

func (s *SQLiteDatabase) imageTags(ctx context.Context, id string) ([]vagas.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM library_image_tags WHERE image_id = ? ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("listing tags of %s: %w", id, err)
	}
	defer rows.Close()

	var tags []vagas.Tag
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, vagas.Tag(tag))
	}
	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, id string, tags []vagas.Tag) error {
	for _, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO library_image_tags (image_id, tag) VALUES (?, ?)`, id, string(tag))
		if err != nil {
			return fmt.Errorf("tagging %s with %s: %w", id, tag, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (vagas.LibraryImage, error) {
	var img vagas.LibraryImage
	if err := row.Scan(&img.ID, &img.URL, &img.BlobKey, &img.Custom, &img.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return img, err
		}
		return img, fmt.Errorf("scanning image: %w", err)
	}
	return img, nil
}

// Usage counter operations

// LoadCount returns the persisted usage count.
func (s *SQLiteDatabase) LoadCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM usage_stats WHERE id = 1`).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("loading usage count: %w", err)
	}
	return count, nil
}

// SaveCount overwrites the persisted usage count.
func (s *SQLiteDatabase) SaveCount(ctx context.Context, count int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_stats (id, count, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET count = excluded.count, updated_at = excluded.updated_at`,
		count, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving usage count: %w", err)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// DB exposes the underlying connection for migrations.
func (s *SQLiteDatabase) DB() *sql.DB {
	return s.db
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
