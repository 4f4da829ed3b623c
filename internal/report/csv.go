package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siterisk-cli/internal/model"
)

var policyScoreHeader = []string{
	"policy_id", "address", "city", "state",
	"latitude", "longitude", "score", "risk", "site_count", "error",
}

// PolicyScoresCSV writes one row per policy score, input order preserved.
func PolicyScoresCSV(w io.Writer, scores []model.PolicyScore) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(policyScoreHeader); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, s := range scores {
		row := []string{
			s.PolicyID, s.Address, s.City, s.State,
			formatCoord(s.Latitude), formatCoord(s.Longitude),
			formatScore(s.Score), string(s.Risk), formatCount(s.SiteCount), s.Error,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "report: write csv row for policy %s", s.PolicyID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}
