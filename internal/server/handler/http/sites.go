package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atinyakov/tsadmin/internal/middleware"
	"github.com/atinyakov/tsadmin/internal/models"
)

const defaultPageSize = 100

// SitePager defines the paging operation required by SitesHandler.
type SitePager interface {
	Page(ctx context.Context, pageSize, pageNumber int) ([]models.SiteRecord, int, error)
}

// SitesHandler serves the sites collection.
type SitesHandler struct {
	Sites SitePager
}

// List answers GET /sites with one page of sites and its pagination
// element. pageSize defaults to 100 and pageNumber to 1.
func (h *SitesHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize, ok := queryInt(r, "pageSize", defaultPageSize)
	if !ok {
		invalidPage(w, "page size", r.URL.Query().Get("pageSize"))
		return
	}
	pageNumber, ok := queryInt(r, "pageNumber", 1)
	if !ok {
		invalidPage(w, "page number", r.URL.Query().Get("pageNumber"))
		return
	}

	sites, total, err := h.Sites.Page(r.Context(), pageSize, pageNumber)
	if err != nil {
		invalidPage(w, "page", fmt.Sprintf("%d/%d", pageNumber, pageSize))
		return
	}

	list := &models.SiteList{Sites: make([]models.SiteElement, 0, len(sites))}
	for _, s := range sites {
		list.Sites = append(list.Sites, models.SiteElement{
			ID:         s.LUID,
			Name:       s.Name,
			ContentURL: s.ContentURL,
			State:      string(s.State),
		})
	}
	middleware.WriteXML(w, http.StatusOK, &models.TSResponse{
		Pagination: &models.Pagination{
			PageNumber:     strconv.Itoa(pageNumber),
			PageSize:       strconv.Itoa(pageSize),
			TotalAvailable: strconv.Itoa(total),
		},
		Sites: list,
	})
}

func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func invalidPage(w http.ResponseWriter, what, value string) {
	middleware.WriteError(w, http.StatusBadRequest, "400006", "Invalid Page Number",
		fmt.Sprintf("The %s '%s' is not valid.", what, value))
}
