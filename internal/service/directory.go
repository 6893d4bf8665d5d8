// Package service implements the behaviour of the local stub server: the
// account directory, session issuance and site paging.
package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/atinyakov/tsadmin/internal/models"
)

// Directory is the fixture data the stub server serves.
type Directory struct {
	// Users maps usernames to passwords for classic sign-in.
	Users map[string]string `json:"users"`
	// Tokens maps personal access token names to secrets.
	Tokens map[string]string `json:"tokens"`
	// Sites is the sites collection in server order.
	Sites []models.SiteRecord `json:"sites"`
}

// LoadDirectory reads a Directory from a JSON file. Sites without a LUID get
// a random one.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var dir Directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i := range dir.Sites {
		if dir.Sites[i].LUID == "" {
			dir.Sites[i].LUID = uuid.NewString()
		}
		if dir.Sites[i].State == "" {
			dir.Sites[i].State = models.SiteActive
		}
	}
	return &dir, nil
}

// GenerateSites returns the default site followed by n-1 numbered sites.
// Every fifth numbered site is suspended.
func GenerateSites(n int) []models.SiteRecord {
	if n <= 0 {
		return nil
	}
	sites := make([]models.SiteRecord, 0, n)
	sites = append(sites, models.SiteRecord{
		Name:       "Default",
		LUID:       uuid.NewString(),
		ContentURL: "",
		State:      models.SiteActive,
	})
	for i := 1; i < n; i++ {
		state := models.SiteActive
		if i%5 == 0 {
			state = models.SiteSuspended
		}
		sites = append(sites, models.SiteRecord{
			Name:       fmt.Sprintf("Site %03d", i),
			LUID:       uuid.NewString(),
			ContentURL: fmt.Sprintf("site%03d", i),
			State:      state,
		})
	}
	return sites
}
