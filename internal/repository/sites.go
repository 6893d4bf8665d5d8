// Package repository provides the PostgreSQL store for site listings.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/tsadmin/internal/models"
)

// PostgresSiteRepository saves site listings to a PostgreSQL database.
type PostgresSiteRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
	// Now stamps last_seen; time.Now when nil.
	Now func() time.Time
}

// NewPostgresSiteRepository creates a PostgresSiteRepository using db.
func NewPostgresSiteRepository(db *sql.DB) *PostgresSiteRepository {
	return &PostgresSiteRepository{DB: db, Now: time.Now}
}

// SaveSites upserts every site by LUID within one transaction and stamps it
// as seen now.
func (s *PostgresSiteRepository) SaveSites(ctx context.Context, sites []models.SiteRecord) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	seen := now().Unix()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, site := range sites {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sites (luid, name, content_url, state, last_seen)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (luid) DO UPDATE SET
				name = EXCLUDED.name,
				content_url = EXCLUDED.content_url,
				state = EXCLUDED.state,
				last_seen = EXCLUDED.last_seen
		`, site.LUID, site.Name, site.ContentURL, string(site.State), seen)
		if err != nil {
			return fmt.Errorf("upsert site %q: %w", site.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListSites returns the saved sites ordered by name.
func (s *PostgresSiteRepository) ListSites(ctx context.Context) ([]models.SiteRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT luid, name, content_url, state FROM sites ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("ListSites: %w", err)
	}
	defer rows.Close()

	var sites []models.SiteRecord
	for rows.Next() {
		var site models.SiteRecord
		var state string
		if err := rows.Scan(&site.LUID, &site.Name, &site.ContentURL, &state); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		site.State = models.SiteState(state)
		sites = append(sites, site)
	}
	return sites, rows.Err()
}
