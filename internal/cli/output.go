package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/tsadmin/internal/models"
)

// writeSites prints one site per line, or a JSON array.
func writeSites(w io.Writer, format string, sites []models.SiteRecord) error {
	if strings.EqualFold(format, "json") {
		if sites == nil {
			sites = []models.SiteRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sites)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range sites {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.LUID, s.ContentURL, s.State)
	}
	return tw.Flush()
}
