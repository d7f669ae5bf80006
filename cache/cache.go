// Package cache is the persistent analysis cache: an append-only,
// compressed, indexed store of search results keyed by (position
// fingerprint, agent, search type). Storage is SQLite in WAL mode, so
// writers never block readers and maintenance can interleave with
// ongoing writes.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/search"
)

// Key identifies a cached analysis.
type Key struct {
	Position string
	Agent    int
	Type     search.Type
}

// Entry is one cached analysis. Reads always return the most recent
// entry for a key ("latest wins"); older rows stay until Compact prunes
// them.
type Entry struct {
	Result    *search.Result
	State     *game.State
	CreatedAt time.Time
}

// Counters are the aggregate statistics, updated per completed search.
type Counters struct {
	Searches      int64
	Hits          int64
	Misses        int64
	TotalElapsed  time.Duration
	TotalNodes    int64
	TotalRollouts int64
	Rows          int64
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position TEXT NOT NULL,
	agent INTEGER NOT NULL,
	search_type TEXT NOT NULL,
	result TEXT NOT NULL,
	best_score REAL NOT NULL,
	state BLOB,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS analysis_lookup
	ON analysis (position, agent, search_type, created_at DESC);
CREATE INDEX IF NOT EXISTS analysis_recency
	ON analysis (created_at DESC);
CREATE INDEX IF NOT EXISTS analysis_quality
	ON analysis (best_score) WHERE best_score > 0;
CREATE TABLE IF NOT EXISTS counters (
	name TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

var counterNames = []string{
	"searches", "hits", "misses", "elapsed_ns", "nodes", "rollouts",
}

// AnalysisCache is safe for concurrent readers and writers. It does not
// serialize identical concurrent requests: both may compute and both
// may write, which is acceptable because reads take the latest row.
type AnalysisCache struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens (creating if needed) the cache at path. Pass ":memory:"
// for an ephemeral cache.
func Open(path string) (*AnalysisCache, error) {
	db, err := sql.Open("sqlite",
		fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path))
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	for _, name := range counterNames {
		if _, err := db.Exec(
			`INSERT OR IGNORE INTO counters (name, value) VALUES (?, 0)`, name); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: init counters: %w", err)
		}
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &AnalysisCache{db: db, enc: enc, dec: dec}, nil
}

func (c *AnalysisCache) Close() error {
	c.enc.Close()
	c.dec.Close()
	return c.db.Close()
}

// Get returns the most recent entry for key, or nil if there is none.
// A row that fails to decode is treated as a miss, not an error.
func (c *AnalysisCache) Get(ctx context.Context, key Key) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT result, state, created_at FROM analysis
		WHERE position = ? AND agent = ? AND search_type = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		key.Position, key.Agent, string(key.Type))

	var resultJSON string
	var stateBlob []byte
	var createdAt int64
	if err := row.Scan(&resultJSON, &stateBlob, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: get: %w", err)
	}

	ent := &Entry{CreatedAt: time.UnixMilli(createdAt)}
	res := &search.Result{}
	if err := json.Unmarshal([]byte(resultJSON), res); err != nil {
		log.Warn().Err(err).Str("position", key.Position).
			Msg("corrupt cache entry; treating as miss")
		return nil, nil
	}
	ent.Result = res
	if len(stateBlob) > 0 {
		raw, err := c.dec.DecodeAll(stateBlob, nil)
		if err != nil {
			log.Warn().Err(err).Str("position", key.Position).
				Msg("corrupt cache payload; treating as miss")
			return nil, nil
		}
		st := &game.State{}
		if err := json.Unmarshal(raw, st); err != nil {
			log.Warn().Err(err).Str("position", key.Position).
				Msg("corrupt cache payload; treating as miss")
			return nil, nil
		}
		ent.State = st
	}
	return ent, nil
}

// Put appends a new row for key. The serialized state, if given, is
// zstd-compressed to bound growth from exhaustive runs.
func (c *AnalysisCache) Put(ctx context.Context, key Key, res *search.Result, st *game.State) error {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache: marshal result: %w", err)
	}
	var stateBlob []byte
	if st != nil {
		raw, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("cache: marshal state: %w", err)
		}
		stateBlob = c.enc.EncodeAll(raw, nil)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO analysis (position, agent, search_type, result, best_score, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.Position, key.Agent, string(key.Type), string(resultJSON),
		res.BestScore, stateBlob, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// RecordSearch folds a completed search into the aggregate counters.
// hit marks whether it was served from the cache.
func (c *AnalysisCache) RecordSearch(ctx context.Context, res *search.Result, hit bool) error {
	incr := map[string]int64{
		"searches": 1,
	}
	if hit {
		incr["hits"] = 1
	} else {
		incr["misses"] = 1
		incr["elapsed_ns"] = int64(res.Elapsed)
		incr["nodes"] = int64(res.Nodes)
		incr["rollouts"] = int64(res.Rollouts)
	}
	for name, by := range incr {
		if _, err := c.db.ExecContext(ctx,
			`UPDATE counters SET value = value + ? WHERE name = ?`, by, name); err != nil {
			return fmt.Errorf("cache: record search: %w", err)
		}
	}
	return nil
}

// Stats returns the aggregate counters plus the current row count.
func (c *AnalysisCache) Stats(ctx context.Context) (*Counters, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("cache: stats: %w", err)
	}
	defer rows.Close()
	cnt := &Counters{}
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		switch name {
		case "searches":
			cnt.Searches = value
		case "hits":
			cnt.Hits = value
		case "misses":
			cnt.Misses = value
		case "elapsed_ns":
			cnt.TotalElapsed = time.Duration(value)
		case "nodes":
			cnt.TotalNodes = value
		case "rollouts":
			cnt.TotalRollouts = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analysis`).Scan(&cnt.Rows); err != nil {
		return nil, err
	}
	return cnt, nil
}

// RecentPositions returns the most recently analyzed position
// fingerprints, newest first, for operational tooling.
func (c *AnalysisCache) RecentPositions(ctx context.Context, limit int) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT DISTINCT position FROM analysis
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cache: recent: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Compact prunes rows that a newer row for the same key supersedes,
// then checkpoints the WAL and refreshes the planner statistics. It is
// safe to run beside concurrent writers.
func (c *AnalysisCache) Compact(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM analysis WHERE id NOT IN (
			SELECT max(id) FROM analysis
			GROUP BY position, agent, search_type
		)`)
	if err != nil {
		return fmt.Errorf("cache: compact: %w", err)
	}
	pruned, _ := res.RowsAffected()
	if _, err := c.db.ExecContext(ctx, `PRAGMA wal_checkpoint(PASSIVE)`); err != nil {
		return fmt.Errorf("cache: checkpoint: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `PRAGMA optimize`); err != nil {
		return fmt.Errorf("cache: optimize: %w", err)
	}
	log.Info().Int64("pruned", pruned).Msg("cache-compacted")
	return nil
}

// IntegrityCheck runs a quick structural check; it returns an error if
// the database reports anything but "ok".
func (c *AnalysisCache) IntegrityCheck(ctx context.Context) error {
	var status string
	if err := c.db.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&status); err != nil {
		return fmt.Errorf("cache: integrity check: %w", err)
	}
	if status != "ok" {
		return fmt.Errorf("cache: integrity check failed: %s", status)
	}
	return nil
}
