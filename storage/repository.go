package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"estate_dumps/models"
)

// DumpRepository accepts completed dumps for persistence.
type DumpRepository interface {
	StoreDump(ctx context.Context, siteID string, dump *models.Dump) error
}

// MultiRepository fans a dump out to several repositories. Every repository
// is attempted; the returned error joins the failures.
type MultiRepository struct {
	repos []namedRepository
}

type namedRepository struct {
	name string
	repo DumpRepository
}

func NewMultiRepository() *MultiRepository {
	return &MultiRepository{}
}

func (m *MultiRepository) Add(name string, repo DumpRepository) {
	m.repos = append(m.repos, namedRepository{name: name, repo: repo})
}

func (m *MultiRepository) Len() int {
	return len(m.repos)
}

func (m *MultiRepository) StoreDump(ctx context.Context, siteID string, dump *models.Dump) error {
	var errs []error
	for _, r := range m.repos {
		if err := r.repo.StoreDump(ctx, siteID, dump); err != nil {
			log.Error().Err(err).Str("repository", r.name).Str("dump", dump.ID.String()).Msg("store dump failed")
			errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
			continue
		}
		log.Debug().Str("repository", r.name).Str("dump", dump.ID.String()).Int("entries", len(dump.Entries)).Msg("dump stored")
	}
	return errors.Join(errs...)
}
