package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"mobilia/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS catalogs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  catalogId INTEGER NOT NULL,
  name TEXT NOT NULL,
  code TEXT,
  description TEXT,
  priceCents INTEGER NOT NULL DEFAULT 0,
  category TEXT,
  manufacturer TEXT,
  dimensions TEXT,
  materials TEXT NOT NULL DEFAULT '[]',
  colors TEXT NOT NULL DEFAULT '[]',
  quantity INTEGER NOT NULL DEFAULT 1,
  sourceRow INTEGER NOT NULL DEFAULT 0,
  imageUrl TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(catalogId) REFERENCES catalogs(id)
);
CREATE INDEX IF NOT EXISTS idx_products_catalogId ON products(catalogId);
CREATE INDEX IF NOT EXISTS idx_products_code ON products(code);

CREATE TABLE IF NOT EXISTS ingest_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  catalogId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(catalogId) REFERENCES catalogs(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) CreateCatalog(filename string) (int64, error) {
	result, err := d.conn.Exec(`INSERT INTO catalogs (filename) VALUES (?)`, filename)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateCatalogStatus(catalogID int64, status string) error {
	_, err := d.conn.Exec(`UPDATE catalogs SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, catalogID)
	return err
}

func (d *DB) GetCatalog(catalogID int64) (*internal.CatalogRow, error) {
	var row internal.CatalogRow
	err := d.conn.QueryRow(`SELECT id, filename, status, createdAt FROM catalogs WHERE id = ?`, catalogID).
		Scan(&row.ID, &row.Filename, &row.Status, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) CreateProduct(p internal.ProductRecord) (int64, error) {
	materialsJSON, _ := json.Marshal(p.Materials)
	colorsJSON, _ := json.Marshal(p.Colors)

	result, err := d.conn.Exec(`
INSERT INTO products (
  catalogId, name, code, description, priceCents, category, manufacturer,
  dimensions, materials, colors, quantity, sourceRow, imageUrl
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.CatalogID, p.Name, p.Code, p.Description, p.PriceCents, p.Category, p.Manufacturer,
		p.Dimensions, string(materialsJSON), string(colorsJSON), p.Quantity, p.SourceRow, p.ImageURL)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateProductImageURL(productID int64, url string) error {
	_, err := d.conn.Exec(`UPDATE products SET imageUrl = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, url, productID)
	return err
}

func (d *DB) ProductsByCatalogID(catalogID int64) ([]internal.ProductRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, catalogId, name, code, description, priceCents, category, manufacturer,
       dimensions, materials, colors, quantity, sourceRow, imageUrl
FROM products WHERE catalogId = ? ORDER BY sourceRow ASC
`, catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductRecord
	for rows.Next() {
		var p internal.ProductRecord
		var code, description, category, manufacturer, dimensions sql.NullString
		var materialsJSON, colorsJSON string
		if err := rows.Scan(
			&p.ID, &p.CatalogID, &p.Name, &code, &description, &p.PriceCents, &category, &manufacturer,
			&dimensions, &materialsJSON, &colorsJSON, &p.Quantity, &p.SourceRow, &p.ImageURL,
		); err != nil {
			return nil, err
		}
		p.Code = code.String
		p.Description = description.String
		p.Category = category.String
		p.Manufacturer = manufacturer.String
		p.Dimensions = dimensions.String
		_ = json.Unmarshal([]byte(materialsJSON), &p.Materials)
		_ = json.Unmarshal([]byte(colorsJSON), &p.Colors)
		out = append(out, p)
	}

	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, catalogID int64, timings map[string]float64, report internal.IngestReport) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(report)
	_, err := d.conn.Exec(`INSERT INTO ingest_runs (traceId, catalogId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, catalogID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
