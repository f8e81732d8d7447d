package leads

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"ID", "Listing", "Name", "Phone", "Email", "Message", "Status", "Created At"}

// ExportXLSX renders leads into a spreadsheet for the back office.
func ExportXLSX(items []Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row, lead := range items {
		values := []interface{}{
			lead.ID,
			lead.ListingName,
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.Message,
			lead.Status,
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
