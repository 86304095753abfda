package export

import (
	"context"
	"fmt"
	"time"

	"opscrm/internal/features/customer"
	"opscrm/internal/features/lead"

	"github.com/xuri/excelize/v2"
)

// maxExportRows caps a single workbook; exports are working documents,
// not backups.
const maxExportRows = 10000

type ExportService interface {
	ExportLeads(ctx context.Context) ([]byte, string, error)
	ExportCustomers(ctx context.Context) ([]byte, string, error)
}

type ExportServiceImpl struct {
	LeadRepo     lead.LeadRepository
	CustomerRepo customer.CustomerRepository
}

func NewExportService(leadRepo lead.LeadRepository, customerRepo customer.CustomerRepository) ExportService {
	return &ExportServiceImpl{
		LeadRepo:     leadRepo,
		CustomerRepo: customerRepo,
	}
}

func (s *ExportServiceImpl) ExportLeads(ctx context.Context) ([]byte, string, error) {
	leads, _, err := s.LeadRepo.List(ctx, nil, maxExportRows, 0)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Name", "Email", "Phone", "Company", "Source", "Status", "Created"}
	rows := make([][]interface{}, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []interface{}{
			l.Name, l.Email, l.Phone, l.Company, l.Source, string(l.Status),
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return buildWorkbook("Leads", columns, rows)
}

func (s *ExportServiceImpl) ExportCustomers(ctx context.Context) ([]byte, string, error) {
	customers, _, err := s.CustomerRepo.List(ctx, nil, maxExportRows, 0)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Name", "Email", "Phone", "Company", "Converted from lead", "Created"}
	rows := make([][]interface{}, 0, len(customers))
	for _, c := range customers {
		fromLead := ""
		if c.LeadID != nil {
			fromLead = c.LeadID.Hex()
		}
		rows = append(rows, []interface{}{
			c.Name, c.Email, c.Phone, c.Company, fromLead,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return buildWorkbook("Customers", columns, rows)
}

func buildWorkbook(sheetName string, columns []string, rows [][]interface{}) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-%s.xlsx", sheetName, time.Now().Format("20060102-150405"))
	return buffer.Bytes(), filename, nil
}
