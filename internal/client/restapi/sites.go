package restapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atinyakov/tsadmin/internal/models"
	"go.uber.org/zap"
)

// DefaultPageSize is the page size used when none is given.
const DefaultPageSize = 100

// ListAllSites pages through the sites collection and returns every site
// keyed by name. A later page overwrites an earlier record with the same
// name.
//
// The loop advances a requested-so-far counter by pageSize after every page,
// regardless of how many records the page held, and stops once the counter
// reaches the totalAvailable reported by the latest page. Any rejected page
// aborts the listing without a partial result.
func (c *Client) ListAllSites(ctx context.Context, token string, pageSize int) (map[string]models.SiteRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	sites := make(map[string]models.SiteRecord)
	requested := 0
	for page := 1; ; page++ {
		records, total, err := c.sitesPage(ctx, token, pageSize, page)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			sites[r.Name] = r
		}

		requested += pageSize
		c.log.Debug("sites page",
			zap.Int("page", page),
			zap.Int("records", len(records)),
			zap.Int("requested", requested),
			zap.Int("total_available", total),
		)
		if requested >= total {
			return sites, nil
		}
	}
}

// sitesPage fetches one page and returns its records in server order along
// with the current totalAvailable.
func (c *Client) sitesPage(ctx context.Context, token string, pageSize, pageNumber int) ([]models.SiteRecord, int, error) {
	url := fmt.Sprintf("%s/sites/?pageSize=%d&pageNumber=%d", c.apiURL, pageSize, pageNumber)
	status, data, err := c.do(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("query sites page %d: %w", pageNumber, err)
	}
	if status != http.StatusOK {
		return nil, 0, failure(models.ErrList, "", status, data)
	}

	var doc models.TSResponse
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: decode sites page %d: %v", models.ErrProtocol, pageNumber, err)
	}
	if doc.Pagination == nil {
		return nil, 0, fmt.Errorf("%w: sites page %d has no pagination", models.ErrProtocol, pageNumber)
	}
	total, err := strconv.Atoi(doc.Pagination.TotalAvailable)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: sites page %d: totalAvailable %q", models.ErrProtocol, pageNumber, doc.Pagination.TotalAvailable)
	}

	var records []models.SiteRecord
	if doc.Sites != nil {
		records = make([]models.SiteRecord, 0, len(doc.Sites.Sites))
		for _, s := range doc.Sites.Sites {
			records = append(records, s.Record())
		}
	}
	return records, total, nil
}
