package report

import (
	"bytes"
	"testing"

	"tragedy-commons/internal/commons"

	"github.com/xuri/excelize/v2"
)

func TestWriteResults(t *testing.T) {
	results := []commons.RoundResult{
		commons.Summarize(1, []commons.Entry{
			{PlayerID: 1, FirstName: "Ada", LastName: "Lovelace", Units: 20, ShowName: true},
			{PlayerID: 2, FirstName: "Alan", LastName: "Turing", Units: 10},
		}),
	}
	var buf bytes.Buffer
	if err := WriteResults(&buf, 3, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	avg, err := f.GetCellValue(summarySheet, "D2")
	if err != nil || avg != "350" {
		t.Fatalf("expected average revenue 350, got %q %v", avg, err)
	}
	rows, err := f.GetRows(playersSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and two players, got %d rows", len(rows))
	}
	if rows[1][1] != "Lovelace, Ada" || rows[2][1] != "Anonymous" {
		t.Fatalf("unexpected names %q / %q", rows[1][1], rows[2][1])
	}
	if rows[1][3] != "5000" {
		t.Fatalf("expected revenue 5000, got %q", rows[1][3])
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(9); got != "commons-game-9-results.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
}
