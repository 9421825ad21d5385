package scraper

import (
	"context"
	"fmt"

	"estate_dumps/config"
	"estate_dumps/fetch"
	"estate_dumps/fields"
	"estate_dumps/models"
)

// Integration is one scraped site: it describes itself and produces dumps.
type Integration interface {
	WebPage() models.WebPage
	GenerateDump(ctx context.Context) (*models.Dump, error)
}

func NewIntegration(siteCfg *config.SiteConfig, fetcher fetch.Fetcher, now fields.NowFunc) (Integration, error) {
	switch siteCfg.Handler {
	case "sprzedajemy":
		return NewSprzedajemy(siteCfg, fetcher, now), nil
	default:
		return nil, fmt.Errorf("unknown handler %q for site %s", siteCfg.Handler, siteCfg.ID)
	}
}
