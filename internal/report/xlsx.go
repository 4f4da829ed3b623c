package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// PolicyScoresXLSX writes the batch scores as a single-sheet workbook.
func PolicyScoresXLSX(w io.Writer, scores []model.PolicyScore) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "report: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range policyScoreHeader {
		header.AddCell().Value = h
	}

	for _, s := range scores {
		row := sheet.AddRow()
		row.AddCell().Value = s.PolicyID
		row.AddCell().Value = s.Address
		row.AddCell().Value = s.City
		row.AddCell().Value = s.State

		for _, coord := range []*float64{s.Latitude, s.Longitude} {
			cell := row.AddCell()
			if coord != nil {
				cell.SetFloat(*coord)
			}
		}

		scoreCell := row.AddCell()
		if s.Score != nil {
			scoreCell.SetInt(*s.Score)
		}
		row.AddCell().Value = string(s.Risk)
		countCell := row.AddCell()
		if s.SiteCount != nil {
			countCell.SetInt(*s.SiteCount)
		}
		row.AddCell().Value = s.Error
	}

	return eris.Wrap(file.Write(w), "report: write xlsx")
}
