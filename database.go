package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// UserRow represents a user account record
type UserRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// UserStats holds a user's lifetime match totals
type UserStats struct {
	Username string
	Wins     int
	Losses   int
	Goals    int
	Games    int
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_wins INTEGER NOT NULL DEFAULT 0,
		total_losses INTEGER NOT NULL DEFAULT 0,
		total_goals INTEGER NOT NULL DEFAULT 0,
		total_games INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreateUser creates a new user account and returns its ID
func (db *DB) CreateUser(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO users (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetUserByUsername returns a user by username, or nil
func (db *DB) GetUserByUsername(username string) (*UserRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM users WHERE username = ?",
		username,
	)
	u := &UserRow{}
	err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetUserStats returns a user's lifetime totals, or nil
func (db *DB) GetUserStats(id int64) (*UserStats, error) {
	row := db.conn.QueryRow(
		"SELECT username, total_wins, total_losses, total_goals, total_games FROM users WHERE id = ?",
		id,
	)
	s := &UserStats{}
	err := row.Scan(&s.Username, &s.Wins, &s.Losses, &s.Goals, &s.Games)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// RecordMatchResult adds one match outcome to the named user's totals.
// Names without an account (guests) are silently skipped.
func (db *DB) RecordMatchResult(name string, won bool, goalsScored int) error {
	winInc := 0
	lossInc := 0
	if won {
		winInc = 1
	} else {
		lossInc = 1
	}
	_, err := db.conn.Exec(`
		UPDATE users SET
			total_wins = total_wins + ?,
			total_losses = total_losses + ?,
			total_goals = total_goals + ?,
			total_games = total_games + 1
		WHERE username = ?`,
		winInc, lossInc, goalsScored, name,
	)
	return err
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Wins     int     `json:"totalWins"`
	Losses   int     `json:"totalLosses"`
	Goals    int     `json:"totalGoals"`
	Games    int     `json:"totalGames"`
	WinRate  float64 `json:"winRate"`
}

// GetLeaderboard returns top players ordered by wins, then win rate, then goals
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT username, total_wins, total_losses, total_goals, total_games,
			ROUND(CAST(total_wins AS FLOAT) / CASE WHEN total_games = 0 THEN 1 ELSE total_games END * 100, 1) AS win_rate
		FROM users
		WHERE total_games > 0
		ORDER BY total_wins DESC, win_rate DESC, total_goals DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Wins, &e.Losses, &e.Goals, &e.Games, &e.WinRate); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a stored setting value, or ""
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
