package service

import (
	"context"
	"errors"

	"github.com/atinyakov/tsadmin/internal/models"
)

// MaxPageSize is the largest page the server hands out.
const MaxPageSize = 1000

// ErrInvalidPage reports a page size or number outside the accepted range.
var ErrInvalidPage = errors.New("invalid page parameters")

// SiteService pages over a fixed sites collection.
type SiteService struct {
	sites []models.SiteRecord
}

// NewSiteService constructs a SiteService serving sites in the given order.
func NewSiteService(sites []models.SiteRecord) *SiteService {
	return &SiteService{sites: sites}
}

// Page returns the records of page pageNumber (1-based) and the total
// number of sites. A page past the end is empty, not an error.
func (s *SiteService) Page(_ context.Context, pageSize, pageNumber int) ([]models.SiteRecord, int, error) {
	if pageSize < 1 || pageSize > MaxPageSize || pageNumber < 1 {
		return nil, 0, ErrInvalidPage
	}
	total := len(s.sites)
	start := (pageNumber - 1) * pageSize
	if start >= total {
		return []models.SiteRecord{}, total, nil
	}
	end := min(start+pageSize, total)
	return s.sites[start:end], total, nil
}

// ByContentURL finds the site with the given content URL.
func (s *SiteService) ByContentURL(contentURL string) (models.SiteRecord, bool) {
	for _, site := range s.sites {
		if site.ContentURL == contentURL {
			return site, true
		}
	}
	return models.SiteRecord{}, false
}
