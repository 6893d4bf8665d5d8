package middleware

import (
	"encoding/xml"
	"net/http"

	"github.com/atinyakov/tsadmin/internal/models"
)

// WriteXML writes v as an XML document with the given status.
func WriteXML(w http.ResponseWriter, status int, v any) {
	data, err := xml.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(data)
}

// WriteError writes a vendor error document.
func WriteError(w http.ResponseWriter, status int, code, summary, detail string) {
	WriteXML(w, status, models.ErrorResponse(code, summary, detail))
}
