package storage

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"tresjolie.dev/transit/model"
)

type PSQLStorage struct {
	db *sql.DB
}

// Creates a new Postgres Storage using the provided connection string.
//
// If clearDB is true, the database will be cleared on startup. You
// probably only want this for testing.
func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`
DROP TABLE IF EXISTS stop;
DROP TABLE IF EXISTS line;
`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stop (
    stop_code TEXT PRIMARY KEY,
    stop_name TEXT NOT NULL,
    stop_lat DOUBLE PRECISION NOT NULL,
    stop_lon DOUBLE PRECISION NOT NULL,
    stop_dir TEXT,
    stop_lines TEXT[] NOT NULL,
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

	return &PSQLStorage{
		db: db,
	}, nil
}

func (s *PSQLStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (s *PSQLStorage) Stops() ([]model.Stop, error) {
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
ORDER BY stop_code COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("querying stops: %w", err)
	}
	defer rows.Close()

	stops := []model.Stop{}
	for rows.Next() {
		var stop model.Stop
		var dir sql.NullString
		lines := []string{}
		err := rows.Scan(
			&stop.Code,
			&stop.Name,
			&stop.Lat,
			&stop.Lon,
			&dir,
			pq.Array(&lines),
			&stop.Municipality,
			&stop.Zone,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		if dir.Valid {
			stop.Direction = model.Dir(dir.String)
		}
		stop.Lines = lines
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stops: %w", err)
	}

	return stops, nil
}

func (s *PSQLStorage) Lines() ([]model.Line, error) {
	rows, err := s.db.Query(`SELECT line_name, line_desc FROM line ORDER BY line_name COLLATE "C"`)
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

func (s *PSQLStorage) WriteStops(stops []model.Stop) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
INSERT INTO stop (stop_code, stop_name, stop_lat, stop_lon, stop_dir, stop_lines, stop_muni, stop_zone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (stop_code) DO UPDATE SET
    stop_name = EXCLUDED.stop_name,
    stop_lat = EXCLUDED.stop_lat,
    stop_lon = EXCLUDED.stop_lon,
    stop_dir = EXCLUDED.stop_dir,
    stop_lines = EXCLUDED.stop_lines,
    stop_muni = EXCLUDED.stop_muni,
    stop_zone = EXCLUDED.stop_zone`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, stop := range stops {
		lines := stop.Lines
		if lines == nil {
			lines = []string{}
		}
		_, err := stmt.Exec(
			stop.Code,
			stop.Name,
			stop.Lat,
			stop.Lon,
			nullDirection(stop.Direction),
			pq.Array(lines),
			stop.Municipality,
			stop.Zone,
		)
		if err != nil {
			return fmt.Errorf("writing stop '%s': %w", stop.Code, err)
		}
	}

	return tx.Commit()
}

func (s *PSQLStorage) WriteLines(lines []model.Line) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
INSERT INTO line (line_name, line_desc) VALUES ($1, $2)
ON CONFLICT (line_name) DO UPDATE SET line_desc = EXCLUDED.line_desc`)
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

func (s *PSQLStorage) DeleteStops(codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM stop WHERE stop_code = ANY($1)`, pq.Array(codes))
	if err != nil {
		return fmt.Errorf("deleting stops: %w", err)
	}
	return nil
}
