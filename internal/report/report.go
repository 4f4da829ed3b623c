// Package report renders score results as text, CSV, XLSX and GeoJSON.
package report

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// Text writes a human-readable report for a single score result.
func Text(w io.Writer, res *model.ScoreResult) error {
	p := message.NewPrinter(language.AmericanEnglish)

	_, err := p.Fprintf(w, "Location: %.5f, %.5f\nRadius:   %.1f miles\nSites:    %d unremediated\nScore:    %d (%s)\n",
		res.Latitude, res.Longitude, res.RadiusMiles, res.SiteCount, res.Score, res.Risk)
	if err != nil {
		return err
	}

	if len(res.Sites) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	shown := res.Sites
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, site := range shown {
		name := site.Name
		if name == "" {
			name = site.ID
		}
		if _, err := p.Fprintf(w, "  - %s (%s) %s\n", name, site.RemediationStatus, site.OneLineAddress()); err != nil {
			return err
		}
	}
	if rest := len(res.Sites) - len(shown); rest > 0 {
		if _, err := p.Fprintf(w, "  ... and %d more\n", rest); err != nil {
			return err
		}
	}
	return nil
}

// formatScore renders a nullable score for tabular output.
func formatScore(score *int) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%d", *score)
}

func formatCount(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
