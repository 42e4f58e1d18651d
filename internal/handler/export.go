package handler

import (
	"encoding/csv"
	"fmt"
	"time"

	"budgetbook/internal/models"
	"budgetbook/internal/service"
	"budgetbook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler exports the caller's operations as CSV or XLSX.
type ExportHandler struct {
	Operations *service.OperationService
	Users      *service.UserService
}

func NewExportHandler(operations *service.OperationService, users *service.UserService) *ExportHandler {
	return &ExportHandler{Operations: operations, Users: users}
}

var exportHeaders = []string{"Type", "Category", "Amount", "Payment method", "Location", "Date"}

func exportRow(op *models.Operation) []string {
	return []string{
		op.Type,
		op.Category.Name,
		op.Amount.StringFixed(2),
		op.PaymentMethod,
		op.Location,
		op.Date.Format("2006-01-02"),
	}
}

func (h *ExportHandler) operations(c *gin.Context) ([]models.Operation, bool) {
	oh := OperationHandler{Users: h.Users}
	account, ok := oh.account(c)
	if !ok {
		return nil, false
	}
	ops, err := h.Operations.List(account)
	if err != nil {
		util.ServerError(c)
		return nil, false
	}
	return ops, true
}

// ExportCSV streams all operations as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	ops, ok := h.operations(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"operations_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range ops {
		writer.Write(exportRow(&ops[i]))
	}
}

// ExportXLSX streams all operations as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	ops, ok := h.operations(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Operations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.ServerError(c)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range ops {
		row := idx + 2
		for col, value := range exportRow(&ops[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"operations_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.ServerError(c)
	}
}
