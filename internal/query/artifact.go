package query

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/orilang/oricore/internal/arc"
	"github.com/orilang/oricore/internal/schema"

	_ "modernc.org/sqlite"
)

// artifactVersion is bumped whenever SerializeArcFunction's wire format
// changes incompatibly; it is stored beside each entry and compared on
// Get, so a stale-format entry reads back as a clean miss. It is not part
// of the content-address key. Tagged with the same schema-version constant the
// rest of the middle-end's JSON payloads use.
const artifactVersion = schema.ArcV1

// ArtifactCache is the content-addressed store for pre-optimization ARC
// IR: hash(serialized ArcFunction) → (version, blob). The cache itself
// neither lowers nor runs borrow inference: GetOrCompute returns the
// stored copy on a hit and stores the function it was given on a miss
// (spec.md §4.9/§D.6). Backed by modernc.org/sqlite rather than a
// hand-rolled file format, matching the pack's database/sql usage for
// structured local storage.
type ArtifactCache struct {
	db      *sql.DB
	Session string
	Verbose bool
}

// OpenArtifactCache opens (creating if necessary) a SQLite-backed
// ArtifactCache at path, inside dir. Each opened cache gets a fresh session id
// (github.com/google/uuid), logged alongside hit/miss trace lines so a
// concurrent pair of runs sharing one cache file can be told apart in the
// log.
func OpenArtifactCache(cfg CacheConfig) (*ArtifactCache, error) {
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("query: creating cache dir %s: %w", cfg.Dir, err)
		}
	}
	path := cfg.Dir + "/artifacts.db"
	if cfg.Dir == "" {
		path = "artifacts.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("query: opening artifact cache %s: %w", path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS artifacts (
		key     TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		blob    BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("query: initializing artifact cache schema: %w", err)
	}

	return &ArtifactCache{
		db:      db,
		Session: uuid.New().String(),
		Verbose: cfg.Verbose,
	}, nil
}

// Close releases the underlying database handle.
func (c *ArtifactCache) Close() error {
	return c.db.Close()
}

// ContentKey computes the cache key for fn: a SHA-256 of its serialized
// form, so two structurally identical functions (even built in separate
// arenas) address the same cache slot, and any change to the function's
// content changes the key.
func ContentKey(fn arc.ArcFunction) (string, error) {
	data, err := SerializeArcFunction(fn)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (c *ArtifactCache) logf(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(os.Stderr, "[artifact %s] "+format+"\n", append([]any{c.Session}, args...)...)
	}
}

// Get looks up key. A corrupt entry (one that fails to deserialize) is
// treated as a miss per spec.md §7's QRY001 recovery policy: it is not
// surfaced as an error to the caller, only logged, so the caller falls
// through to recomputing and re-storing it.
func (c *ArtifactCache) Get(key string) (arc.ArcFunction, bool) {
	var version string
	var blob []byte
	err := c.db.QueryRow(`SELECT version, blob FROM artifacts WHERE key = ?`, key).Scan(&version, &blob)
	if err == sql.ErrNoRows {
		c.logf("miss %s", key)
		return arc.ArcFunction{}, false
	}
	if err != nil {
		c.logf("read error for %s: %v", key, err)
		return arc.ArcFunction{}, false
	}
	if version != artifactVersion {
		c.logf("stale version for %s: got %s want %s", key, version, artifactVersion)
		return arc.ArcFunction{}, false
	}

	fn, err := DeserializeArcFunction(blob)
	if err != nil {
		c.logf("corrupt entry for %s: %v (treating as miss)", key, err)
		return arc.ArcFunction{}, false
	}

	c.logf("hit %s", key)
	return fn, true
}

// Put stores fn under key, overwriting any existing entry.
func (c *ArtifactCache) Put(key string, fn arc.ArcFunction) error {
	data, err := SerializeArcFunction(fn)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO artifacts (key, version, blob) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version = excluded.version, blob = excluded.blob`,
		key, artifactVersion, data,
	)
	if err != nil {
		return fmt.Errorf("query: storing artifact %s: %w", key, err)
	}
	c.logf("store %s", key)
	return nil
}

// GetOrCompute returns the cached ArcFunction for fn's content key if
// present; otherwise it stores fn itself under that key and returns it
// unchanged. The key is computed from fn itself, so fn is already lowered
// when this is called; a hit returns the stored copy in its place.
func (c *ArtifactCache) GetOrCompute(fn arc.ArcFunction) (arc.ArcFunction, error) {
	key, err := ContentKey(fn)
	if err != nil {
		return arc.ArcFunction{}, err
	}
	if cached, ok := c.Get(key); ok {
		return cached, nil
	}
	if err := c.Put(key, fn); err != nil {
		return arc.ArcFunction{}, err
	}
	return fn, nil
}
