package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLRepo persists snapshots in a relational player_progress table.
// JSON-shaped fields (upgrades, reserved task lists) are stored as
// JSON text columns; timestamps as RFC 3339 text for portability
// across both dialects.
type SQLRepo struct {
	dialect Dialect
	db      *sql.DB
}

// OpenSQL opens (and migrates) the store. For sqlite the dsn is a
// file path, created along with its directory if missing; for
// postgres it is a connection string.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLRepo, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
		if strings.TrimSpace(dsn) == "" {
			dsn = filepath.Join("data", "tapkombat.sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	case DialectPostgres:
		driver = "pgx"
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("postgres dialect requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// Serialize writers; sqlite only supports one at a time.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s store: %w", dialect, err)
	}

	r := &SQLRepo{dialect: dialect, db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLRepo) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS player_progress (
	player_id       TEXT PRIMARY KEY,
	coins           BIGINT NOT NULL DEFAULT 0,
	energy          BIGINT NOT NULL DEFAULT 0,
	max_energy      BIGINT NOT NULL DEFAULT 0,
	profit_per_hour BIGINT NOT NULL DEFAULT 0,
	level           BIGINT NOT NULL DEFAULT 1,
	tap_power       BIGINT NOT NULL DEFAULT 1,
	upgrades        TEXT NOT NULL DEFAULT '[]',
	tasks           TEXT NOT NULL DEFAULT '[]',
	completed_tasks TEXT NOT NULL DEFAULT '[]',
	last_daily_reward TEXT,
	daily_streak    BIGINT NOT NULL DEFAULT 0,
	updated_at      TEXT NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate player_progress: %w", err)
	}
	return nil
}

// rebind converts ?-placeholders to the postgres form when needed.
func (r *SQLRepo) rebind(q string) string {
	if r.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// dbtx covers both *sql.DB and *sql.Tx so the row helpers can run
// standalone or inside a transaction.
type dbtx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLRepo) Get(ctx context.Context, playerID string) (Snapshot, bool, error) {
	return r.get(ctx, r.db, playerID, false)
}

func (r *SQLRepo) get(ctx context.Context, q dbtx, playerID string, forUpdate bool) (Snapshot, bool, error) {
	query := `
SELECT coins, energy, max_energy, profit_per_hour, level, tap_power,
       upgrades, tasks, completed_tasks, last_daily_reward, daily_streak, updated_at
FROM player_progress WHERE player_id = ?`
	if forUpdate && r.dialect == DialectPostgres {
		query += " FOR UPDATE"
	}

	var (
		snap                       Snapshot
		upgrades, tasks, completed string
		lastReward, updatedAt      sql.NullString
	)
	snap.PlayerID = playerID
	err := q.QueryRowContext(ctx, r.rebind(query), playerID).Scan(
		&snap.Coins, &snap.Energy, &snap.MaxEnergy, &snap.ProfitPerHour,
		&snap.Level, &snap.TapPower, &upgrades, &tasks, &completed,
		&lastReward, &snap.DailyStreak, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load player %s: %w", playerID, err)
	}

	if err := json.Unmarshal([]byte(upgrades), &snap.Upgrades); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode upgrades for %s: %w", playerID, err)
	}
	_ = json.Unmarshal([]byte(tasks), &snap.Tasks)
	_ = json.Unmarshal([]byte(completed), &snap.CompletedTasks)

	if lastReward.Valid && lastReward.String != "" {
		t, err := time.Parse(time.RFC3339Nano, lastReward.String)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("decode last_daily_reward for %s: %w", playerID, err)
		}
		snap.LastDailyReward = &t
	}
	if updatedAt.Valid && updatedAt.String != "" {
		if t, err := time.Parse(time.RFC3339Nano, updatedAt.String); err == nil {
			snap.UpdatedAt = t
		}
	}
	return snap, true, nil
}

func (r *SQLRepo) Put(ctx context.Context, snap Snapshot) error {
	return r.put(ctx, r.db, snap)
}

func (r *SQLRepo) put(ctx context.Context, e dbtx, snap Snapshot) error {
	upgrades, err := json.Marshal(snapOrEmpty(snap.Upgrades))
	if err != nil {
		return fmt.Errorf("encode upgrades: %w", err)
	}
	tasks, err := json.Marshal(rawOrEmpty(snap.Tasks))
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	completed, err := json.Marshal(rawOrEmpty(snap.CompletedTasks))
	if err != nil {
		return fmt.Errorf("encode completed tasks: %w", err)
	}

	var lastReward any
	if snap.LastDailyReward != nil {
		lastReward = snap.LastDailyReward.UTC().Format(time.RFC3339Nano)
	}

	const q = `
INSERT INTO player_progress
	(player_id, coins, energy, max_energy, profit_per_hour, level, tap_power,
	 upgrades, tasks, completed_tasks, last_daily_reward, daily_streak, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
	coins = excluded.coins,
	energy = excluded.energy,
	max_energy = excluded.max_energy,
	profit_per_hour = excluded.profit_per_hour,
	level = excluded.level,
	tap_power = excluded.tap_power,
	upgrades = excluded.upgrades,
	tasks = excluded.tasks,
	completed_tasks = excluded.completed_tasks,
	last_daily_reward = excluded.last_daily_reward,
	daily_streak = excluded.daily_streak,
	updated_at = excluded.updated_at`

	_, err = e.ExecContext(ctx, r.rebind(q),
		snap.PlayerID, snap.Coins, snap.Energy, snap.MaxEnergy,
		snap.ProfitPerHour, snap.Level, snap.TapPower,
		string(upgrades), string(tasks), string(completed),
		lastReward, snap.DailyStreak,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save player %s: %w", snap.PlayerID, err)
	}
	return nil
}

// Update runs fn inside a transaction. Postgres takes a row lock
// with SELECT ... FOR UPDATE; sqlite serializes on its single write
// connection.
func (r *SQLRepo) Update(ctx context.Context, playerID string, fn func(Snapshot, bool) (Snapshot, error)) (Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin update for %s: %w", playerID, err)
	}
	defer tx.Rollback()

	snap, found, err := r.get(ctx, tx, playerID, true)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := fn(snap, found)
	if err != nil {
		return Snapshot{}, err
	}
	next.PlayerID = playerID
	if err := r.put(ctx, tx, next); err != nil {
		return Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit update for %s: %w", playerID, err)
	}
	return next, nil
}

func (r *SQLRepo) Close() error { return r.db.Close() }

func snapOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func rawOrEmpty(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return []json.RawMessage{}
	}
	return in
}
