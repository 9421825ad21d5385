package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"estate_dumps/fields"
	"estate_dumps/identity"
	"estate_dumps/models"
)

// PostgresStore keeps dumps and a fingerprint-keyed listing history.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dumps (
			id UUID PRIMARY KEY,
			site_id TEXT NOT NULL,
			web_page JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			entries_count INTEGER NOT NULL,
			failed_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS dump_entries (
			dump_id UUID NOT NULL REFERENCES dumps(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			failed BOOLEAN NOT NULL,
			fingerprint TEXT,
			geohash TEXT,
			data JSONB NOT NULL,
			PRIMARY KEY (dump_id, position)
		);

		CREATE TABLE IF NOT EXISTS listings (
			fingerprint TEXT PRIMARY KEY,
			site_id TEXT NOT NULL,
			url TEXT,
			city TEXT,
			district TEXT,
			geohash TEXT,
			last_price NUMERIC,
			first_seen_at TIMESTAMPTZ NOT NULL,
			last_seen_at TIMESTAMPTZ NOT NULL,
			times_seen INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_dump_entries_fingerprint ON dump_entries(fingerprint);
		CREATE INDEX IF NOT EXISTS idx_listings_geohash ON listings(geohash);
	`)
	return err
}

// =============================================================================
// Dumps
// =============================================================================

// StoreDump inserts the dump with all its entries and bumps the listing
// history once per distinct fingerprint, all in one transaction.
func (s *PostgresStore) StoreDump(ctx context.Context, siteID string, dump *models.Dump) error {
	page, err := json.Marshal(dump.WebPage)
	if err != nil {
		return fmt.Errorf("marshal web page: %w", err)
	}

	var relisted int
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO dumps (id, site_id, web_page, created_at, entries_count, failed_count)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			dump.ID, siteID, page, dump.DateTime, len(dump.Entries), dump.Failures())
		if err != nil {
			return fmt.Errorf("insert dump: %w", err)
		}

		batch := &pgx.Batch{}
		for i, e := range dump.Entries {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal entry %d: %w", i, err)
			}
			batch.Queue(`
				INSERT INTO dump_entries (dump_id, position, failed, fingerprint, geohash, data)
				VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)`,
				dump.ID, i, e.IsEmpty(), identity.Fingerprint(e),
				fields.Geohash(e.PropertyAddress.DetailedAddress), data)
		}

		listings := listingUpserts(dump.Entries)
		for _, l := range listings {
			e := l.entry
			batch.Queue(`
				INSERT INTO listings (fingerprint, site_id, url, city, district, geohash, last_price, first_seen_at, last_seen_at)
				VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $8)
				ON CONFLICT (fingerprint) DO UPDATE SET
					url = EXCLUDED.url,
					last_price = EXCLUDED.last_price,
					last_seen_at = EXCLUDED.last_seen_at,
					times_seen = listings.times_seen + 1
				RETURNING times_seen`,
				l.fingerprint, siteID, e.OfferDetails.URL, string(e.PropertyAddress.City), e.PropertyAddress.District,
				fields.Geohash(e.PropertyAddress.DetailedAddress), e.PropertyPrice.TotalGrossPrice, dump.DateTime)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range dump.Entries {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("insert entry %d: %w", i, err)
			}
		}
		for _, l := range listings {
			var timesSeen int
			if err := br.QueryRow().Scan(&timesSeen); err != nil {
				return fmt.Errorf("upsert listing %s: %w", l.fingerprint, err)
			}
			if timesSeen > 1 {
				relisted++
			}
		}
		return br.Close()
	})
	if err != nil {
		return err
	}

	log.Debug().Str("site", siteID).Str("dump", dump.ID.String()).Int("relisted", relisted).Msg("listing history updated")
	return nil
}

type listingUpsert struct {
	fingerprint string
	entry       models.Entry
}

// listingUpserts keeps the first entry of every fingerprint in the dump.
// Listings promoted onto several index pages, or distinct offers that
// fingerprint alike, count once per dump. Sentinels are skipped.
func listingUpserts(entries []models.Entry) []listingUpsert {
	seen := make(map[string]struct{}, len(entries))
	var out []listingUpsert
	for _, e := range entries {
		fp := identity.Fingerprint(e)
		if fp == "" {
			continue
		}
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, listingUpsert{fingerprint: fp, entry: e})
	}
	return out
}
