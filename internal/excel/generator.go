package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
)

const (
	summarySheet   = "ملخص"
	byTypeSheet    = "حسب النوع"
	byStatusSheet  = "حسب الحالة"
	byMonthSheet   = "حسب الشهر"
	contractsSheet = "العقود"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(rep model.ContractReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, rep)

	counts := []struct {
		sheet  string
		header string
		rows   []model.NamedCount
	}{
		{byTypeSheet, "نوع العقد", rep.Summary.ByType},
		{byStatusSheet, "الحالة", rep.Summary.ByStatus},
		{byMonthSheet, "الشهر", rep.Summary.ByMonth},
	}
	for _, c := range counts {
		if _, err := file.NewSheet(c.sheet); err != nil {
			return nil, err
		}
		g.writeCounts(file, c.sheet, c.header, c.rows)
	}

	if _, err := file.NewSheet(contractsSheet); err != nil {
		return nil, err
	}
	g.writeContracts(file, rep.Contracts)

	for _, sheet := range file.GetSheetList() {
		_ = file.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: boolPtr(true)})
	}
	file.SetActiveSheet(0)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, rep model.ContractReport) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "المكتب")
	set("B1", rep.OfficeTitle)
	set("A2", "تاريخ التقرير")
	set("B2", formatDateTime(rep.Summary.GeneratedAt))
	set("A3", "إجمالي العقود")
	set("B3", rep.Summary.Total)
	set("A4", "إجمالي القيمة")
	set("B4", rep.Summary.TotalValue)
	set("A5", "متوسط القيمة")
	set("B5", rep.Summary.AverageValue)

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 32)
}

func (g *Generator) writeCounts(file *excelize.File, sheet, header string, rows []model.NamedCount) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", header)
	set("B1", "العدد")
	set("C1", "النسبة %")
	for i, row := range rows {
		r := i + 2
		set(fmt.Sprintf("A%d", r), row.Name)
		set(fmt.Sprintf("B%d", r), row.Count)
		set(fmt.Sprintf("C%d", r), row.Percent)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "C", 12)
}

func (g *Generator) writeContracts(file *excelize.File, contracts []model.Contract) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(contractsSheet, cell, value)
	}

	headers := []string{
		"رقم العقد",
		"العنوان",
		"النوع",
		"الطرف الأول",
		"الطرف الثاني",
		"تاريخ التحرير",
		"تاريخ الانتهاء",
		"القيمة",
		"الحالة",
		"مؤرشف",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, c := range contracts {
		row := i + 2
		party2 := ""
		if c.Party2 != nil {
			party2 = c.Party2.Name
		}
		set(fmt.Sprintf("A%d", row), c.ID)
		set(fmt.Sprintf("B%d", row), c.Title)
		set(fmt.Sprintf("C%d", row), c.Type)
		set(fmt.Sprintf("D%d", row), c.Party1.Name)
		set(fmt.Sprintf("E%d", row), party2)
		set(fmt.Sprintf("F%d", row), formatRawDate(c.CreationDate))
		set(fmt.Sprintf("G%d", row), formatRawDate(c.EndDate))
		set(fmt.Sprintf("H%d", row), c.Value.Float64())
		set(fmt.Sprintf("I%d", row), string(c.Status))
		set(fmt.Sprintf("J%d", row), archivedLabel(c.IsArchived))
	}

	_ = file.SetColWidth(contractsSheet, "A", "A", 16)
	_ = file.SetColWidth(contractsSheet, "B", "B", 36)
	_ = file.SetColWidth(contractsSheet, "C", "E", 24)
	_ = file.SetColWidth(contractsSheet, "F", "G", 14)
	_ = file.SetColWidth(contractsSheet, "H", "J", 12)
}

func archivedLabel(archived bool) string {
	if archived {
		return "نعم"
	}
	return "لا"
}

func formatRawDate(raw string) string {
	parsed, ok := report.ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return parsed.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func boolPtr(v bool) *bool {
	return &v
}
