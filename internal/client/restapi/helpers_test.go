package restapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// roundTripperFunc lets a test stand in for the network.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func errorBody(code, summary, detail string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<tsResponse xmlns="http://tableau.com/api">
  <error code="%s">
    <summary>%s</summary>
    <detail>%s</detail>
  </error>
</tsResponse>`, code, summary, detail)
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// sitesPageBody renders one page of a collection of total sites named
// site-000, site-001, ...
func sitesPageBody(total, pageSize, pageNumber int) string {
	var b strings.Builder
	b.WriteString(`<tsResponse xmlns="http://tableau.com/api">`)
	fmt.Fprintf(&b, `<pagination pageNumber="%d" pageSize="%d" totalAvailable="%d"/>`, pageNumber, pageSize, total)
	b.WriteString("<sites>")
	for i := (pageNumber - 1) * pageSize; i < pageNumber*pageSize && i < total; i++ {
		fmt.Fprintf(&b, `<site id="luid-%03d" name="site-%03d" contentUrl="site%03d" state="Active"/>`, i, i, i)
	}
	b.WriteString("</sites></tsResponse>")
	return b.String()
}
