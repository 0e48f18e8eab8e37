// Package render produces the user-facing artifacts: the interactive
// Leaflet map and the printable field report. Strictly a read-only consumer
// of the record set.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

//go:embed map.html.tmpl
var mapTemplateSrc string

var mapTemplate = template.Must(template.New("map").Parse(mapTemplateSrc))

// Marker colors, matching the legend: pregnant red, wild orange, multiple
// animals purple, standard blue, completed green.
const (
	colorPregnant  = "#d63031"
	colorWild      = "#e17055"
	colorMultiple  = "#6c5ce7"
	colorStandard  = "#0984e3"
	colorCompleted = "#00b894"
)

// MapOptions configures the rendered viewport.
type MapOptions struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
}

// point is one plotted marker, serialized into the page as JSON.
type point struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Color    string  `json:"color"`
	Popup    string  `json:"popup"`
	Species  string  `json:"species"`
	Done     bool    `json:"done"`
	Priority int     `json:"priority"` // 1-based rank among pending, 0 for completed
}

type unresolvedRow struct {
	ID           string
	LocationText string
	Contact      string
}

type templateData struct {
	CenterLat   float64
	CenterLng   float64
	Zoom        int
	PointsJSON  template.JS
	Stats       store.Stats
	Pending     int
	Completed   int
	Unresolved  []unresolvedRow
	GeneratedAt string
}

// MapHTML renders the full map page. Unresolved records are never plotted;
// they appear in the manual follow-up panel instead. Completed records are
// plotted in green for context but carry no priority rank.
func MapHTML(records []domain.AnimalRecord, stats store.Stats, opts MapOptions) ([]byte, error) {
	rank := make(map[string]int, len(stats.PendingPriority))
	for i, rec := range stats.PendingPriority {
		rank[rec.ID] = i + 1
	}

	var points []point
	var unresolved []unresolvedRow
	for _, rec := range records {
		if !rec.Resolved {
			if rec.Status == domain.StatusPending {
				unresolved = append(unresolved, unresolvedRow{
					ID:           rec.ID,
					LocationText: rec.LocationText,
					Contact:      rec.Contact,
				})
			}
			continue
		}
		points = append(points, point{
			ID:       rec.ID,
			Lat:      rec.Coordinate.Lat,
			Lng:      rec.Coordinate.Lng,
			Color:    markerColor(rec),
			Popup:    popupHTML(rec),
			Species:  string(rec.Species),
			Done:     rec.Status == domain.StatusCompleted,
			Priority: rank[rec.ID],
		})
	}

	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("marshal map points: %w", err)
	}

	var buf bytes.Buffer
	err = mapTemplate.Execute(&buf, templateData{
		CenterLat:   opts.CenterLat,
		CenterLng:   opts.CenterLng,
		Zoom:        opts.Zoom,
		PointsJSON:  template.JS(pointsJSON),
		Stats:       stats,
		Pending:     stats.ByStatus[domain.StatusPending],
		Completed:   stats.ByStatus[domain.StatusCompleted],
		Unresolved:  unresolved,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 MST"),
	})
	if err != nil {
		return nil, fmt.Errorf("render map template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMap renders and atomically replaces the map artifact: a half-written
// page is never published, so racing automation triggers degrade to
// last-writer-wins.
func WriteMap(records []domain.AnimalRecord, stats store.Stats, opts MapOptions, path string) error {
	html, err := MapHTML(records, stats, opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure web directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".map-*.html")
	if err != nil {
		return fmt.Errorf("create temp map file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(html); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close map file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish map: %w", err)
	}
	return nil
}

func markerColor(rec domain.AnimalRecord) string {
	switch {
	case rec.Status == domain.StatusCompleted:
		return colorCompleted
	case rec.Pregnant:
		return colorPregnant
	case rec.Temperament == domain.TemperamentWild:
		return colorWild
	case rec.AnimalCount > 1:
		return colorMultiple
	default:
		return colorStandard
	}
}

func popupHTML(rec domain.AnimalRecord) string {
	var b bytes.Buffer
	if rec.Pregnant {
		b.WriteString(`<b class="urgent">PREGNANT - HIGH PRIORITY</b><br>`)
	}
	fmt.Fprintf(&b, "<h4>%s</h4>", template.HTMLEscapeString(area(rec)))
	fmt.Fprintf(&b, "<b>Animal:</b> %s &times; %d<br>", template.HTMLEscapeString(string(rec.Species)), rec.AnimalCount)
	fmt.Fprintf(&b, "<b>Sex:</b> %s &middot; <b>Age:</b> %s<br>", rec.Sex, rec.AgeClass)
	fmt.Fprintf(&b, "<b>Temperament:</b> %s<br>", rec.Temperament)
	fmt.Fprintf(&b, "<b>Contact:</b> %s<br>", template.HTMLEscapeString(rec.Contact))
	if rec.PhotoURL != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">Photo</a> `, template.HTMLEscapeString(rec.PhotoURL))
	}
	// plotted records always carry a resolved coordinate
	fmt.Fprintf(&b, `<a href="https://maps.google.com/?q=%.6f,%.6f" target="_blank">Map link</a>`, rec.Coordinate.Lat, rec.Coordinate.Lng)
	if rec.Notes != "" {
		fmt.Fprintf(&b, "<div class=\"notes\">%s</div>", template.HTMLEscapeString(rec.Notes))
	}
	return b.String()
}

func area(rec domain.AnimalRecord) string {
	if rec.LocationArea != "" {
		return rec.LocationArea
	}
	return rec.LocationText
}
