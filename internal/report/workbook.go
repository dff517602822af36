// Package report exports class results as a spreadsheet.
package report

import (
	"fmt"
	"io"

	"tragedy-commons/internal/commons"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	playersSheet = "Players"
)

var summaryHeader = []any{
	"Round", "Farmers", "Total cows", "Average revenue per cow", "Profit per cow",
	"Total profit", "Profit per farmer", "Optimal cows", "Optimal profit per cow",
	"Optimal total", "Optimal profit per farmer", "Overgrazed",
}

var playersHeader = []any{"Round", "Player", "Cows", "Revenue or loss"}

// WriteResults writes one summary row per round and one row per player entry.
func WriteResults(w io.Writer, gameID uint, results []commons.RoundResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(playersSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	if err := f.SetSheetRow(playersSheet, "A1", &playersHeader); err != nil {
		return err
	}

	playerRow := 2
	for i, round := range results {
		row := []any{
			round.RoundNumber,
			round.Farmers,
			round.TotalUnits,
			commons.Round2(round.AverageRevenuePerUnit),
			commons.Round2(round.ProfitPerUnit),
			commons.Round2(round.TotalProfit),
			commons.Round2(round.AverageProfitPerFarmer),
			round.OptimalUnits,
			commons.Round2(round.OptimalProfitPerUnit),
			commons.Round2(round.OptimalTotal),
			commons.Round2(round.OptimalAveragePerFarmer),
			round.Pasture.Overgrazed,
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
		for _, player := range round.Players {
			name := player.Name
			if name == "" {
				name = "Anonymous"
			}
			cells := []any{round.RoundNumber, name, player.Units, commons.Round2(player.RevenueOrLoss)}
			if err := f.SetSheetRow(playersSheet, fmt.Sprintf("A%d", playerRow), &cells); err != nil {
				return err
			}
			playerRow++
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Tragedy of the Commons game %d", gameID),
		Creator: "tragedy-commons",
	}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// Filename is the attachment name of a game's workbook.
func Filename(gameID uint) string {
	return fmt.Sprintf("commons-game-%d-results.xlsx", gameID)
}
