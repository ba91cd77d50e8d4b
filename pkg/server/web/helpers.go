package web

import (
	"encoding/json"
	"net/http"
)

// RenderJSON sets the content type and renders v to the ResponseWriter.
func RenderJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
