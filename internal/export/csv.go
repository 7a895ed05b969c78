// Package export serialises ledger tables to CSV and parses them back.
//
// Every table has a header row of field names, one record per line and no
// index column. Amounts are written with full precision so a read after a
// write gives back equal values.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	PersonalHeader = []string{"Date", "Category", "Amount", "Note"}
	GroupHeader    = []string{"Description", "Total", "Participant", "Paid", "Owed"}
)

var (
	// ErrHeader is returned when a CSV file does not start with the expected header.
	ErrHeader = errors.New("unexpected csv header")

	// ErrCarriageReturn is returned for a field containing '\r'. CSV readers
	// turn a quoted "\r\n" into "\n", so such a field cannot be read back.
	ErrCarriageReturn = errors.New("field contains a carriage return")
)

// WritePersonal writes personal ledger entries as CSV.
func WritePersonal(w io.Writer, entries []models.PersonalExpense) error {
	for i, e := range entries {
		if strings.ContainsRune(e.Note, '\r') {
			return fmt.Errorf("entry %d note: %w", i, ErrCarriageReturn)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(PersonalHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range entries {
		record := []string{e.Date.String(), string(e.Category), e.Amount.String(), e.Note}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPersonal parses CSV written by WritePersonal. IDs are not part of the
// CSV and come back empty.
func ReadPersonal(r io.Reader) ([]models.PersonalExpense, error) {
	records, err := readAll(r, PersonalHeader)
	if err != nil {
		return nil, err
	}

	entries := make([]models.PersonalExpense, 0, len(records))
	for i, rec := range records {
		date, err := models.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		category, err := models.ParseCategory(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		amount, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount: %w", i+2, err)
		}
		entries = append(entries, models.PersonalExpense{
			Date:     date,
			Category: category,
			Amount:   amount,
			Note:     rec[3],
		})
	}
	return entries, nil
}

// WriteGroup writes the exploded group ledger as CSV.
func WriteGroup(w io.Writer, rows []models.ExplodedRow) error {
	for i, r := range rows {
		if strings.ContainsRune(r.Description, '\r') || strings.ContainsRune(r.Participant, '\r') {
			return fmt.Errorf("row %d: %w", i, ErrCarriageReturn)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(GroupHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Description, r.Total.String(), r.Participant, r.Paid.String(), r.Owed.String()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadGroup parses CSV written by WriteGroup.
func ReadGroup(r io.Reader) ([]models.ExplodedRow, error) {
	records, err := readAll(r, GroupHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ExplodedRow, 0, len(records))
	for i, rec := range records {
		var nums [3]decimal.Decimal
		for j, col := range []int{1, 3, 4} {
			v, err := decimal.NewFromString(rec[col])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", i+2, GroupHeader[col], err)
			}
			nums[j] = v
		}
		rows = append(rows, models.ExplodedRow{
			Description: rec[0],
			Total:       nums[0],
			Participant: rec[2],
			Paid:        nums[1],
			Owed:        nums[2],
		})
	}
	return rows, nil
}

// readAll checks the header and returns the remaining records.
func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrHeader, got, header)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}
