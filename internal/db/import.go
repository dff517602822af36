package db

import (
	"encoding/csv"
	"os"
	"strings"

	"gorm.io/gorm"
)

type requestRecord struct {
	Input  RequestInput
	Status string
}

// LoadRequests imports legacy game requests from a CSV with the header
// first_name,last_name,email,institution,description[,status]. Each row
// becomes a request pair; rows already present are skipped.
func LoadRequests(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := readRequests(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, record := range records {
		var existing int64
		if err := conn.Model(&GameRequest{}).
			Where("email = ? AND last_name = ? AND institution = ? AND description = ?",
				record.Input.Email, record.Input.LastName, record.Input.Institution, record.Input.Description).
			Count(&existing).Error; err != nil {
			return inserted, err
		}
		if existing > 0 {
			continue
		}
		production, _, err := CreateRequestPair(conn, record.Input, record.Status == StatusAccepted)
		if err != nil {
			return inserted, err
		}
		if record.Status == StatusRejected {
			if _, err := RejectRequest(conn, production.ID); err != nil {
				return inserted, err
			}
		}
		inserted++
	}
	return inserted, nil
}

func readRequests(path string) ([]requestRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []requestRecord
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		record := requestRecord{
			Input: RequestInput{
				FirstName:   strings.TrimSpace(row[0]),
				LastName:    strings.TrimSpace(row[1]),
				Email:       strings.TrimSpace(row[2]),
				Institution: strings.TrimSpace(row[3]),
			},
			Status: StatusAccepted,
		}
		if len(row) >= 5 {
			record.Input.Description = strings.TrimSpace(row[4])
		}
		if len(row) >= 6 {
			switch status := strings.ToLower(strings.TrimSpace(row[5])); status {
			case StatusRequested, StatusRejected, StatusAccepted:
				record.Status = status
			}
		}
		if record.Input.FirstName == "" || record.Input.LastName == "" || record.Input.Email == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
