package http

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var staticFiles embed.FS

// DashboardPage serves the single-page dashboard.
func DashboardPage(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "dashboard page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}
