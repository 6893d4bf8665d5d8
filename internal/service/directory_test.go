package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/tsadmin/internal/models"
)

func TestGenerateSites(t *testing.T) {
	sites := GenerateSites(11)
	if len(sites) != 11 {
		t.Fatalf("len = %d; want 11", len(sites))
	}
	if sites[0].ContentURL != "" || sites[0].Name != "Default" {
		t.Errorf("first site = %+v; want the default site", sites[0])
	}
	if sites[5].State != models.SiteSuspended || sites[4].State != models.SiteActive {
		t.Errorf("unexpected states: %s, %s", sites[4].State, sites[5].State)
	}
	seen := make(map[string]bool)
	for _, s := range sites {
		if s.LUID == "" || seen[s.LUID] {
			t.Errorf("bad LUID %q", s.LUID)
		}
		seen[s.LUID] = true
	}
	if GenerateSites(0) != nil {
		t.Error("GenerateSites(0) should be nil")
	}
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	data := `{
		"users": {"admin": "pw"},
		"tokens": {"ci": "secret"},
		"sites": [
			{"name": "Default", "contentUrl": ""},
			{"name": "Finance", "luid": "fin-1", "contentUrl": "finance", "state": "Suspended"}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	dir, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if dir.Users["admin"] != "pw" || dir.Tokens["ci"] != "secret" {
		t.Errorf("unexpected accounts: %+v", dir)
	}
	if dir.Sites[0].LUID == "" || dir.Sites[0].State != models.SiteActive {
		t.Errorf("defaults not applied: %+v", dir.Sites[0])
	}
	if dir.Sites[1].LUID != "fin-1" || dir.Sites[1].State != models.SiteSuspended {
		t.Errorf("explicit values lost: %+v", dir.Sites[1])
	}

	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
