package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/tsadmin/internal/service"
)

func TestSitesHandler_List(t *testing.T) {
	h := &SitesHandler{Sites: service.NewSiteService(service.GenerateSites(5))}

	tests := []struct {
		name         string
		query        string
		expectedCode int
		contains     []string
	}{
		{
			name:         "defaults",
			query:        "",
			expectedCode: http.StatusOK,
			contains:     []string{`pageNumber="1"`, `pageSize="100"`, `totalAvailable="5"`, `name="Site 004"`},
		},
		{
			name:         "second page",
			query:        "?pageSize=2&pageNumber=2",
			expectedCode: http.StatusOK,
			contains:     []string{`totalAvailable="5"`, `name="Site 002"`, `name="Site 003"`},
		},
		{
			name:         "non-numeric page size",
			query:        "?pageSize=many",
			expectedCode: http.StatusBadRequest,
			contains:     []string{`code="400006"`, "many"},
		},
		{
			name:         "non-numeric page number",
			query:        "?pageNumber=x",
			expectedCode: http.StatusBadRequest,
			contains:     []string{`code="400006"`},
		},
		{
			name:         "out of range",
			query:        "?pageNumber=0",
			expectedCode: http.StatusBadRequest,
			contains:     []string{`code="400006"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest("GET", "/api/3.4/sites/"+tt.query, nil))
			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			for _, s := range tt.contains {
				if !strings.Contains(rec.Body.String(), s) {
					t.Errorf("expected body to contain %q, got %q", s, rec.Body.String())
				}
			}
		})
	}
}
