package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"hstin/palcolormap/colormap"
	"hstin/palcolormap/parser"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(dbPath string) (*sql.DB, error) {
	os.Remove(dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE entries (
			position INTEGER,
			value REAL,
			red INTEGER,
			green INTEGER,
			blue INTEGER,
			end_red INTEGER,
			end_green INTEGER,
			end_blue INTEGER,
			tag TEXT,
			line INTEGER,
			PRIMARY KEY (position)
		);
		CREATE TABLE metadata (
			name TEXT,
			value TEXT,
			PRIMARY KEY (name)
		);
		CREATE INDEX idx_entries on entries (value);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		INSERT INTO metadata VALUES
		('name', '?'),
		('format', 'pal'),
		('product', '?'),
		('units', '?'),
		('min', '?'),
		('max', '?'),
		('bins', '?'),
		('source', '?');
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func WriteCatalog(db *sql.DB, table *parser.ColorTable, cm *colormap.Colormap, norm *colormap.Normalizer, source string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO entries
		(position, value, red, green, blue, end_red, end_green, end_blue, tag, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, e := range table.Entries {
		var endR, endG, endB sql.NullInt64
		if e.End != nil {
			endR = sql.NullInt64{Int64: int64(e.End.Red), Valid: true}
			endG = sql.NullInt64{Int64: int64(e.End.Green), Valid: true}
			endB = sql.NullInt64{Int64: int64(e.End.Blue), Valid: true}
		}
		_, err := stmt.Exec(i, e.Value, e.Red, e.Green, e.Blue, endR, endG, endB, e.Tag, e.Line)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return UpdateMetadata(db, map[string]string{
		"name":    filepath.Base(source),
		"product": table.Product,
		"units":   table.Units,
		"min":     strconv.FormatFloat(norm.Min, 'g', -1, 64),
		"max":     strconv.FormatFloat(norm.Max, 'g', -1, 64),
		"bins":    strconv.Itoa(cm.Resolution()),
		"source":  source,
	})
}

func UpdateMetadata(db *sql.DB, values map[string]string) error {
	for name, value := range values {
		_, err := db.Exec("UPDATE metadata SET value = ? WHERE name = ?", value, name)
		if err != nil {
			return err
		}
	}
	return nil
}

func ReadEntries(db *sql.DB) ([]parser.ColorEntry, error) {
	rows, err := db.Query(`SELECT value, red, green, blue, end_red, end_green, end_blue, tag, line
		FROM entries ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []parser.ColorEntry
	for rows.Next() {
		var e parser.ColorEntry
		var endR, endG, endB sql.NullInt64
		if err := rows.Scan(&e.Value, &e.Red, &e.Green, &e.Blue, &endR, &endG, &endB, &e.Tag, &e.Line); err != nil {
			return nil, err
		}
		if endR.Valid {
			e.End = &parser.RGB{Red: int(endR.Int64), Green: int(endG.Int64), Blue: int(endB.Int64)}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func ReadMetadata(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}
	return metadata, rows.Err()
}
