// Package csvimport turns uploaded CSV files into ordered recipient row
// mappings. Column names are caller-defined; the only requirement is a
// case-insensitive "email" column.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"
)

// Parse reads a CSV document and returns one row mapping per record, in
// file order. Short records are padded with empty strings. Fails with a
// ValidationError when the document is empty, malformed, or missing an
// email column.
func Parse(r io.Reader) ([]models.RecipientData, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewValidation("CSV file is empty")
	}
	if err != nil {
		return nil, apperrors.NewValidation("error parsing CSV: %v", err)
	}

	columns := make([]string, len(header))
	hasEmail := false
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
		if strings.EqualFold(columns[i], "email") {
			hasEmail = true
		}
	}
	if !hasEmail {
		return nil, apperrors.NewValidation("CSV must contain an 'email' column")
	}

	var rows []models.RecipientData
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewValidation("error parsing CSV: %v", err)
		}

		row := make(models.RecipientData, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// EmailFromRow returns the value of the email column, matched
// case-insensitively
func EmailFromRow(row models.RecipientData) string {
	for key, value := range row {
		if strings.EqualFold(key, "email") {
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}

// Columns returns the key set of the first row, for upload previews
func Columns(rows []models.RecipientData) []string {
	if len(rows) == 0 {
		return []string{}
	}
	cols := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		cols = append(cols, key)
	}
	return cols
}
