package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-based vector collection store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the vector database at path.
// If path is empty, defaults to ~/.gradewise/vectors.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".gradewise", "vectors.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode so readers are not blocked by a rebuild
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_vector_collections.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func checkInfo(info domain.CollectionInfo) (domain.CollectionInfo, error) {
	if info.Name == "" || info.Dimensions <= 0 {
		return info, fmt.Errorf("%w: collection needs a name and positive dimensions", domain.ErrInvalidInput)
	}
	if info.Fingerprint == "" {
		info.Fingerprint = domain.EmbeddingFingerprint(info.Model, info.Dimensions)
	}
	return info, nil
}

func insertCollection(ctx context.Context, db execer, info domain.CollectionInfo) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO collections (name, embedding_model, dimensions, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, info.Name, info.Model, info.Dimensions, info.Fingerprint, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", info.Name, err)
	}
	return nil
}

// CreateCollection creates an empty collection.
func (s *Store) CreateCollection(ctx context.Context, info domain.CollectionInfo) (driven.Collection, error) {
	info, err := checkInfo(info)
	if err != nil {
		return nil, err
	}
	if err := insertCollection(ctx, s.db, info); err != nil {
		return nil, err
	}
	return &collection{store: s, info: info}, nil
}

// ReplaceCollection drops any collection named info.Name, recreates it and
// inserts records, all in one transaction.
func (s *Store) ReplaceCollection(
	ctx context.Context, info domain.CollectionInfo, records []domain.IndexedRecord,
) (driven.Collection, error) {
	info, err := checkInfo(info)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", info.Name); err != nil {
		return nil, fmt.Errorf("deleting records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", info.Name); err != nil {
		return nil, fmt.Errorf("deleting collection: %w", err)
	}
	if err := insertCollection(ctx, tx, info); err != nil {
		return nil, err
	}
	if err := insertRecords(ctx, tx, info, 0, records); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing collection %q: %w", info.Name, err)
	}
	return &collection{store: s, info: info}, nil
}

// GetCollection opens an existing collection and checks its fingerprint.
func (s *Store) GetCollection(ctx context.Context, name, fingerprint string) (driven.Collection, error) {
	info := domain.CollectionInfo{Name: name}
	err := s.db.QueryRowContext(ctx, `
		SELECT embedding_model, dimensions, fingerprint FROM collections WHERE name = ?
	`, name).Scan(&info.Model, &info.Dimensions, &info.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection %q: %w", name, err)
	}

	if fingerprint != "" && fingerprint != info.Fingerprint {
		return nil, fmt.Errorf("%w: collection %q was built with %s (%d dims)",
			domain.ErrEmbeddingMismatch, name, info.Model, info.Dimensions)
	}

	return &collection{store: s, info: info}, nil
}

// DeleteCollection drops a collection and, through the foreign key, its records.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", name); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	return tx.Commit()
}

// collection implements driven.Collection.
type collection struct {
	store *Store
	info  domain.CollectionInfo
}

var _ driven.Collection = (*collection)(nil)

// Info describes the collection.
func (c *collection) Info() domain.CollectionInfo {
	return c.info
}

// Add inserts records in a single transaction, after any existing ones.
func (c *collection) Add(ctx context.Context, records []domain.IndexedRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM records WHERE collection = ?", c.info.Name,
	).Scan(&next); err != nil {
		return fmt.Errorf("reading next position: %w", err)
	}

	if err := insertRecords(ctx, tx, c.info, next, records); err != nil {
		return err
	}

	return tx.Commit()
}

// insertRecords writes records at positions starting from first.
func insertRecords(ctx context.Context, tx *sql.Tx, info domain.CollectionInfo, first int, records []domain.IndexedRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, position, document, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if len(rec.Embedding) != info.Dimensions {
			return fmt.Errorf("%w: record %s has %d dims, collection expects %d",
				domain.ErrEmbeddingMismatch, rec.ID, len(rec.Embedding), info.Dimensions)
		}

		metadata := rec.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			info.Name, rec.ID, first+i, rec.Document, float32SliceToBytes(rec.Embedding), string(metaJSON))
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// Query ranks every record by cosine distance to embedding.
func (c *collection) Query(ctx context.Context, embedding []float32, k int) ([]domain.QueryHit, error) {
	if len(embedding) != c.info.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dims, collection expects %d",
			domain.ErrEmbeddingMismatch, len(embedding), c.info.Dimensions)
	}
	if k <= 0 {
		return []domain.QueryHit{}, nil
	}

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, document, embedding, metadata FROM records
		WHERE collection = ?
		ORDER BY position
	`, c.info.Name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	hits := []domain.QueryHit{}
	for rows.Next() {
		var (
			hit      domain.QueryHit
			blob     []byte
			metaJSON string
		)
		if err := rows.Scan(&hit.ID, &hit.Document, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if metaJSON != "" && metaJSON != jsonNull {
			if err := json.Unmarshal([]byte(metaJSON), &hit.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling metadata: %w", err)
			}
		}
		hit.Distance = domain.CosineDistance(embedding, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return domain.TopK(hits, k), nil
}

// Count returns the number of records.
func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE collection = ?", c.info.Name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
