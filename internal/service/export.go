package service

import (
	"bytes"
	"fmt"
	"strings"

	"addressbook/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ContactsExportHeader export column order.
var ContactsExportHeader = []string{
	"First Name",
	"Last Name",
	"Date Of Birth",
	"Address 1",
	"Address 2",
	"City",
	"State",
	"Zip Code",
	"Email",
	"Phone Number",
	"Categories",
	"Created",
}

// BuildContactsWorkbook renders the user's contacts as an XLSX download.
func BuildContactsWorkbook(contacts []*domain.Contact) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() before WriteTo: it needs the file open.

	sheetName := "Contacts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range ContactsExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, c := range contacts {
		dob := ""
		if c.DateOfBirth.Valid {
			dob = c.DateOfBirth.Time.Format("2006-01-02")
		}
		categories := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			categories = append(categories, cat.CategoryName)
		}

		values := []any{
			c.FirstName,
			c.LastName,
			dob,
			c.Address1,
			c.Address2.String,
			c.City,
			c.State,
			c.ZipCode,
			c.Email,
			c.PhoneNumber,
			strings.Join(categories, "; "),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
