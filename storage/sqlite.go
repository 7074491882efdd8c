package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tresjolie.dev/transit/model"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

// Opens (and creates, if needed) a SQLite stop database. Without
// config, or with OnDisk false, the database lives in memory.
//
// The schema matches the one shipped in the mobile apps, except that
// stops are keyed by their code string rather than its integer value.
func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = filepath.Join(directory, "stops.db")
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if !onDisk {
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stop (
    stop_code TEXT PRIMARY KEY,
    stop_name TEXT NOT NULL,
    stop_lat REAL NOT NULL,
    stop_lon REAL NOT NULL,
    stop_dir TEXT,
    stop_lines TEXT NOT NULL,
    stop_muni TEXT NOT NULL,
    stop_zone TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS line (
    line_name TEXT PRIMARY KEY,
    line_desc TEXT NOT NULL
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk:    onDisk,
			Directory: directory,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Stops() ([]model.Stop, error) {
	rows, err := s.db.Query(`
SELECT
    stop_code,
    stop_name,
    stop_lat,
    stop_lon,
    stop_dir,
    stop_lines,
    stop_muni,
    stop_zone
FROM stop
ORDER BY stop_code`)
	if err != nil {
		return nil, fmt.Errorf("querying stops: %w", err)
	}
	defer rows.Close()

	stops := []model.Stop{}
	for rows.Next() {
		var stop model.Stop
		var dir sql.NullString
		var lines string
		err := rows.Scan(
			&stop.Code,
			&stop.Name,
			&stop.Lat,
			&stop.Lon,
			&dir,
			&lines,
			&stop.Municipality,
			&stop.Zone,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		if dir.Valid {
			stop.Direction = model.Dir(dir.String)
		}
		stop.Lines = strings.Fields(lines)
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stops: %w", err)
	}

	return stops, nil
}

func (s *SQLiteStorage) Lines() ([]model.Line, error) {
	rows, err := s.db.Query(`SELECT line_name, line_desc FROM line ORDER BY line_name`)
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer rows.Close()

	lines := []model.Line{}
	for rows.Next() {
		var line model.Line
		if err := rows.Scan(&line.Name, &line.Description); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines: %w", err)
	}

	return lines, nil
}

func (s *SQLiteStorage) WriteStops(stops []model.Stop) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
INSERT INTO stop (stop_code, stop_name, stop_lat, stop_lon, stop_dir, stop_lines, stop_muni, stop_zone)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (stop_code) DO UPDATE SET
    stop_name = excluded.stop_name,
    stop_lat = excluded.stop_lat,
    stop_lon = excluded.stop_lon,
    stop_dir = excluded.stop_dir,
    stop_lines = excluded.stop_lines,
    stop_muni = excluded.stop_muni,
    stop_zone = excluded.stop_zone`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, stop := range stops {
		_, err := stmt.Exec(
			stop.Code,
			stop.Name,
			stop.Lat,
			stop.Lon,
			nullDirection(stop.Direction),
			strings.Join(stop.Lines, " "),
			stop.Municipality,
			stop.Zone,
		)
		if err != nil {
			return fmt.Errorf("writing stop '%s': %w", stop.Code, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) WriteLines(lines []model.Line) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
INSERT INTO line (line_name, line_desc) VALUES (?, ?)
ON CONFLICT (line_name) DO UPDATE SET line_desc = excluded.line_desc`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.Exec(line.Name, line.Description); err != nil {
			return fmt.Errorf("writing line '%s': %w", line.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) DeleteStops(codes []string) error {
	if len(codes) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	params := make([]interface{}, 0, len(codes))
	for _, code := range codes {
		params = append(params, code)
	}

	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM stop WHERE stop_code IN (%s)", placeholders), params...)
	if err != nil {
		return fmt.Errorf("deleting stops: %w", err)
	}
	return nil
}

func nullDirection(dir *string) sql.NullString {
	if dir == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *dir, Valid: true}
}
