package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"estate_dumps/fields"
	"estate_dumps/identity"
	"estate_dumps/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dumps (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL,
		web_page_url TEXT,
		web_page_name TEXT,
		features JSON,
		created_at DATETIME,
		entries_count INTEGER,
		failed_count INTEGER
	);

	CREATE TABLE IF NOT EXISTS dump_entries (
		id INTEGER PRIMARY KEY,
		dump_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		failed BOOLEAN DEFAULT FALSE,
		url TEXT,
		fingerprint TEXT,
		offer_kind TEXT,
		city TEXT,
		city_raw TEXT,
		district TEXT,
		street TEXT,
		geohash TEXT,
		total_price REAL,
		price_per_meter REAL,
		area REAL,
		rooms INTEGER,
		floor INTEGER,
		year_built INTEGER,
		created_at DATETIME,
		data JSON,
		UNIQUE(dump_id, position),
		FOREIGN KEY (dump_id) REFERENCES dumps(id)
	);

	CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY,
		site_id TEXT,
		dump_id TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		listings_found INTEGER,
		entries_parsed INTEGER,
		entries_failed INTEGER,
		error_message TEXT
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		site_id TEXT
	);

	CREATE TABLE IF NOT EXISTS site_stats (
		site_id TEXT PRIMARY KEY,
		last_run_at DATETIME,
		last_run_status TEXT,
		total_dumps INTEGER,
		total_entries INTEGER,
		success_rate REAL,
		avg_run_duration_sec INTEGER
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_dumps_site ON dumps(site_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_entries_fingerprint ON dump_entries(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_entries_geohash ON dump_entries(geohash);
	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_logs_run ON scrape_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON scrape_runs(status, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StoreDump writes the dump header and every entry, sentinels included, in
// one transaction so positions stay aligned with discovery order.
func (s *SQLiteStore) StoreDump(ctx context.Context, siteID string, dump *models.Dump) error {
	features, err := json.Marshal(dump.WebPage.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dumps (id, site_id, web_page_url, web_page_name, features, created_at, entries_count, failed_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		dump.ID.String(), siteID, dump.WebPage.URL, dump.WebPage.Name, string(features),
		dump.DateTime, len(dump.Entries), dump.Failures())
	if err != nil {
		return fmt.Errorf("insert dump: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dump_entries (dump_id, position, failed, url, fingerprint, offer_kind, city, city_raw,
			district, street, geohash, total_price, price_per_meter, area, rooms, floor, year_built, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range dump.Entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx,
			dump.ID.String(), i, e.IsEmpty(), e.OfferDetails.URL, identity.Fingerprint(e),
			e.OfferDetails.OfferKind.String(), string(e.PropertyAddress.City), e.PropertyAddress.CityRaw,
			e.PropertyAddress.District, e.PropertyAddress.StreetName, fields.Geohash(e.PropertyAddress.DetailedAddress),
			e.PropertyPrice.TotalGrossPrice, e.PropertyPrice.PricePerMeter,
			e.PropertyDetails.Area, e.PropertyDetails.NumberOfRooms,
			e.PropertyDetails.FloorNumber, e.PropertyDetails.YearOfConstruction,
			nullTime(e.OfferDetails.CreationDateTime), string(data))
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetDumpEntries loads the entries of a dump back in position order
func (s *SQLiteStore) GetDumpEntries(ctx context.Context, dumpID string) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM dump_entries WHERE dump_id = ? ORDER BY position`, dumpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e models.Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountFingerprint reports how many stored entries share fp across all dumps
func (s *SQLiteStore) CountFingerprint(ctx context.Context, fp string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dump_entries WHERE fingerprint = ?`, fp).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO scrape_runs (site_id, started_at, status, listings_found, entries_parsed, entries_failed)
		VALUES (?, ?, ?, 0, 0, 0)`,
		run.SiteID, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs SET dump_id = ?, finished_at = ?, status = ?, listings_found = ?,
			entries_parsed = ?, entries_failed = ?, error_message = ?
		WHERE id = ?`,
		run.DumpID, run.FinishedAt, run.Status, run.ListingsFound,
		run.EntriesParsed, run.EntriesFailed, run.ErrorMessage, run.ID)
	return err
}

func (s *SQLiteStore) GetRun(id int64) (*models.ScrapeRun, error) {
	var run models.ScrapeRun
	var dumpID, errMsg sql.NullString
	err := s.db.QueryRow(`
		SELECT id, site_id, dump_id, started_at, finished_at, status, listings_found,
			entries_parsed, entries_failed, error_message
		FROM scrape_runs WHERE id = ?`, id).Scan(
		&run.ID, &run.SiteID, &dumpID, &run.StartedAt, &run.FinishedAt, &run.Status,
		&run.ListingsFound, &run.EntriesParsed, &run.EntriesFailed, &errMsg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.DumpID = dumpID.String
	run.ErrorMessage = errMsg.String
	return &run, nil
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, siteID string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message, site_id)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, siteID)
	return err
}

func (s *SQLiteStore) GetLogs(runID int64) ([]models.ScrapeLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message, site_id
		FROM scrape_logs WHERE run_id = ? ORDER BY timestamp, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ScrapeLog
	for rows.Next() {
		var l models.ScrapeLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.Timestamp, &l.Level, &l.Message, &l.SiteID); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) UpdateSiteStats(siteID string) error {
	_, err := s.db.Exec(`
		INSERT INTO site_stats (site_id, last_run_at, last_run_status, total_dumps,
			total_entries, success_rate, avg_run_duration_sec)
		SELECT
			?,
			COALESCE(
				(SELECT started_at FROM scrape_runs WHERE site_id = ? AND status = 'completed' ORDER BY started_at DESC LIMIT 1),
				(SELECT started_at FROM scrape_runs WHERE site_id = ? ORDER BY started_at DESC LIMIT 1)
			),
			(SELECT status FROM scrape_runs WHERE site_id = ? ORDER BY started_at DESC LIMIT 1),
			(SELECT COUNT(*) FROM dumps WHERE site_id = ?),
			(SELECT COALESCE(SUM(entries_count), 0) FROM dumps WHERE site_id = ?),
			(SELECT CAST(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS REAL) /
				NULLIF(COUNT(*), 0) FROM scrape_runs WHERE site_id = ?),
			(SELECT AVG(CAST((julianday(finished_at) - julianday(started_at)) * 86400 AS INTEGER))
				FROM scrape_runs WHERE site_id = ? AND finished_at IS NOT NULL)
		ON CONFLICT(site_id) DO UPDATE SET
			last_run_at = excluded.last_run_at,
			last_run_status = excluded.last_run_status,
			total_dumps = excluded.total_dumps,
			total_entries = excluded.total_entries,
			success_rate = excluded.success_rate,
			avg_run_duration_sec = excluded.avg_run_duration_sec`,
		siteID, siteID, siteID, siteID, siteID, siteID, siteID, siteID)
	return err
}

func (s *SQLiteStore) GetSiteStats(siteID string) (*models.SiteStats, error) {
	var st models.SiteStats
	var status sql.NullString
	var rate sql.NullFloat64
	var avg sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT site_id, last_run_at, last_run_status, total_dumps, total_entries, success_rate, avg_run_duration_sec
		FROM site_stats WHERE site_id = ?`, siteID).Scan(
		&st.SiteID, &st.LastRunAt, &status, &st.TotalDumps, &st.TotalEntries, &rate, &avg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.LastRunStatus = status.String
	st.SuccessRate = rate.Float64
	st.AvgRunDurationSec = int(avg.Float64)
	return &st, nil
}

func (s *SQLiteStore) GetLastRunTime(siteID string) (time.Time, error) {
	var lastRun sql.NullTime
	err := s.db.QueryRow(`
		SELECT last_run_at FROM site_stats WHERE site_id = ?`, siteID).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return lastRun.Time, err
}

func (s *SQLiteStore) EnqueueCommand(cmd models.CommandType, params *models.CommandParams) (int64, error) {
	var raw any
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return 0, err
		}
		raw = string(data)
	}
	result, err := s.db.Exec(`INSERT INTO commands (command, params, created_at) VALUES (?, ?, ?)`,
		cmd, raw, time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetPendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, params, created_at, processed_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		var params sql.NullString
		if err := rows.Scan(&cmd.ID, &cmd.Command, &params, &cmd.CreatedAt, &cmd.ProcessedAt); err != nil {
			return nil, err
		}
		if params.Valid {
			cmd.Params = json.RawMessage(params.String)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) ParseCommandParams(cmd *models.Command) (*models.CommandParams, error) {
	if cmd.Params == nil || string(cmd.Params) == "null" {
		return &models.CommandParams{}, nil
	}
	var params models.CommandParams
	if err := json.Unmarshal(cmd.Params, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

func (s *SQLiteStore) ResetAllData() error {
	tables := []string{
		"scrape_logs",
		"scrape_runs",
		"dump_entries",
		"dumps",
		"site_stats",
		"commands",
	}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
