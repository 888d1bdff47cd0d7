// The index package maintains a SQLite database of replay summaries.
//
// Each replay is identified by the digest of its uncompressed bytes, so the
// same replay stored under different names or in a bundle is indexed once.
package index

import (
	"context"
	"database/sql"
	"encoding/hex"

	"github.com/cohvault/recfile"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// Player summarizes a player of an indexed replay.
type Player struct {
	Name    string `json:"name"`
	Team    uint32 `json:"team"`
	Faction string `json:"faction"`
	SteamID uint64 `json:"steamId"`
	Human   bool   `json:"human"`
	Items   int    `json:"items"`
}

// Entry summarizes an indexed replay.
type Entry struct {
	// Digest is the hex-encoded BLAKE2b-256 digest of the replay.
	Digest string `json:"digest"`

	// Path is the file the replay was indexed from.
	Path string `json:"path"`

	Version     uint16   `json:"version"`
	GameType    string   `json:"gameType"`
	Timestamp   string   `json:"timestamp"`
	ChunkyMajor uint32   `json:"chunkyMajor"`
	ChunkyMinor uint32   `json:"chunkyMinor"`
	MapFile     string   `json:"mapFile"`
	MapName     string   `json:"mapName"`
	MapWidth    uint32   `json:"mapWidth"`
	MapHeight   uint32   `json:"mapHeight"`
	Size        int64    `json:"size"`
	Players     []Player `json:"players"`
}

// NewEntry summarizes replay, which was read from path and has the given
// digest.
func NewEntry(path string, digest [32]byte, replay *recfile.Replay) Entry {
	e := Entry{
		Digest:      hex.EncodeToString(digest[:]),
		Path:        path,
		Version:     replay.Header.Version,
		GameType:    replay.Header.GameType,
		Timestamp:   replay.Header.Timestamp,
		ChunkyMajor: replay.Chunky.MajorVersion,
		ChunkyMinor: replay.Chunky.MinorVersion,
		Size:        replay.Size,
	}
	if desc, ok := replay.Chunky.MapDescriptor(); ok {
		e.MapFile = desc.MapFile
		e.MapName = desc.MapName
		e.MapWidth = desc.MapWidth
		e.MapHeight = desc.MapHeight
	}
	for _, p := range replay.Chunky.Players() {
		e.Players = append(e.Players, Player{
			Name:    p.Name,
			Team:    p.Team,
			Faction: p.Faction,
			SteamID: p.SteamID,
			Human:   p.IsHuman(),
			Items:   len(p.Items),
		})
	}
	return e
}

////////////////////////////////////////////////////////////////

const schema = `
	CREATE TABLE IF NOT EXISTS replays (
		digest TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		version INTEGER NOT NULL,
		game_type TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		chunky_major INTEGER NOT NULL,
		chunky_minor INTEGER NOT NULL,
		map_file TEXT NOT NULL,
		map_name TEXT NOT NULL,
		map_width INTEGER NOT NULL,
		map_height INTEGER NOT NULL,
		size INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS players (
		digest TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		team INTEGER NOT NULL,
		faction TEXT NOT NULL,
		steam_id INTEGER NOT NULL,
		human INTEGER NOT NULL,
		items INTEGER NOT NULL,
		PRIMARY KEY (digest, position)
	);

	CREATE INDEX IF NOT EXISTS players_steam_id ON players (steam_id);
`

// DB is a replay index stored in a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens the index stored at path, creating it if necessary.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open index")
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Put adds e to the index, replacing any entry with the same digest.
func (d *DB) Put(ctx context.Context, e Entry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO replays
		(digest, path, version, game_type, timestamp, chunky_major, chunky_minor, map_file, map_name, map_width, map_height, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Digest, e.Path, e.Version, e.GameType, e.Timestamp, e.ChunkyMajor, e.ChunkyMinor,
		e.MapFile, e.MapName, e.MapWidth, e.MapHeight, e.Size,
	)
	if err != nil {
		return errors.Wrap(err, "insert replay")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM players WHERE digest = ?`, e.Digest); err != nil {
		return errors.Wrap(err, "delete players")
	}
	for i, p := range e.Players {
		// Steam ids fit in 63 bits, which the driver requires.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO players (digest, position, name, team, faction, steam_id, human, items)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Digest, i, p.Name, p.Team, p.Faction, int64(p.SteamID), p.Human, p.Items,
		)
		if err != nil {
			return errors.Wrap(err, "insert player")
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// Get returns the entry with the given digest. ok is false if there is no
// such entry.
func (d *DB) Get(ctx context.Context, digest string) (e Entry, ok bool, err error) {
	err = d.db.QueryRowContext(ctx, `
		SELECT digest, path, version, game_type, timestamp, chunky_major, chunky_minor, map_file, map_name, map_width, map_height, size
		FROM replays WHERE digest = ?`, digest,
	).Scan(
		&e.Digest, &e.Path, &e.Version, &e.GameType, &e.Timestamp, &e.ChunkyMajor, &e.ChunkyMinor,
		&e.MapFile, &e.MapName, &e.MapWidth, &e.MapHeight, &e.Size,
	)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "select replay")
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT name, team, faction, steam_id, human, items
		FROM players WHERE digest = ? ORDER BY position`, digest,
	)
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "select players")
	}
	defer rows.Close()
	for rows.Next() {
		var p Player
		var steamID int64
		if err := rows.Scan(&p.Name, &p.Team, &p.Faction, &steamID, &p.Human, &p.Items); err != nil {
			return Entry{}, false, errors.Wrap(err, "scan player")
		}
		p.SteamID = uint64(steamID)
		e.Players = append(e.Players, p)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, false, errors.Wrap(err, "select players")
	}
	return e, true, nil
}

// Has returns whether an entry with the given digest exists.
func (d *DB) Has(ctx context.Context, digest string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replays WHERE digest = ?`, digest).Scan(&n)
	if err != nil {
		return false, errors.Wrap(err, "select replay")
	}
	return n > 0, nil
}

// FindBySteamID returns every entry with a player of the given steam id,
// ordered by digest.
func (d *DB) FindBySteamID(ctx context.Context, steamID uint64) ([]Entry, error) {
	digests, err := d.strings(ctx, `SELECT DISTINCT digest FROM players WHERE steam_id = ? ORDER BY digest`, int64(steamID))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(digests))
	for _, digest := range digests {
		e, ok, err := d.Get(ctx, digest)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Digests returns the digests of every entry.
func (d *DB) Digests(ctx context.Context) ([]string, error) {
	return d.strings(ctx, `SELECT digest FROM replays ORDER BY digest`)
}

// Count returns the number of entries.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replays`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count replays")
	}
	return n, nil
}

// strings returns the single text column of each row of a query. The rows are
// fully read before returning so that the connection is released.
func (d *DB) strings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		list = append(list, s)
	}
	return list, errors.Wrap(rows.Err(), "query")
}
