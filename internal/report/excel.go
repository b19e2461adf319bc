package report

import (
	"fmt"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel report
const (
	SheetSummary   = "Resumo"
	SheetContracts = "Contratos"
	SheetStates    = "Por Estado"
)

// ExcelGenerator renders the contract report as a workbook
type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Generate writes the summary, the full contract list and the per-state
// chart series to separate sheets. Values stay numeric so they can be summed.
func (g *ExcelGenerator) Generate(contracts []domain.ContractDTO, metrics domain.DashboardMetrics, now time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(SheetContracts); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(SheetStates); err != nil {
		return nil, err
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := file.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	g.writeSummary(file, metrics, len(contracts), now, bold, money)
	g.writeContracts(file, contracts, bold, money)
	g.writeStates(file, metrics.Chart, bold)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(file *excelize.File, m domain.DashboardMetrics, total int, now time.Time, bold, money int) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(SheetSummary, cell, value)
	}

	set("A1", "Relatório Estratégico de Contratos")
	_ = file.SetCellStyle(SheetSummary, "A1", "A1", bold)
	set("A2", "Gerado em")
	set("B2", now.Format("02/01/2006"))

	rows := []struct {
		label string
		value interface{}
	}{
		{"Faturamento Anual", m.SalesYear},
		{"Faturamento Mensal", m.SalesMonth},
		{"Faturamento Global", m.GlobalSales},
		{"Contratos Ativos", m.ActiveCount},
		{"Contratos Pendentes", m.PendingCount},
		{"Total de Contratos", total},
		{"Elevadores Contratados", m.TotalElevators},
		{"Elevadores Instalados", m.InstalledElevators},
		{"Plataformas Contratadas", m.TotalPlatforms},
		{"Plataformas Instaladas", m.InstalledPlatforms},
		{"Total Geral Instalado", m.InstalledElevators + m.InstalledPlatforms},
	}
	for i, r := range rows {
		row := 4 + i
		set(fmt.Sprintf("A%d", row), r.label)
		set(fmt.Sprintf("B%d", row), r.value)
	}
	_ = file.SetCellStyle(SheetSummary, "B4", "B6", money)
	_ = file.SetColWidth(SheetSummary, "A", "A", 30)
	_ = file.SetColWidth(SheetSummary, "B", "B", 20)
}

func (g *ExcelGenerator) writeContracts(file *excelize.File, contracts []domain.ContractDTO, bold, money int) {
	headers := []string{
		"Cliente/Órgão", "UF", "Valor Global", "Status",
		"Elevadores Contratados", "Elevadores Instalados",
		"Plataformas Contratadas", "Plataformas Instaladas",
		"Início", "Prazo de Execução", "Encerramento", "Contatos",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(SheetContracts, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = file.SetCellStyle(SheetContracts, "A1", lastHeader, bold)

	for i, c := range contracts {
		row := i + 2
		values := []interface{}{
			c.ClientAgency,
			c.State,
			c.GlobalValue,
			string(c.Status),
			c.ElevatorsQty,
			c.InstalledElevators,
			c.PlatformsQty,
			c.InstalledPlatforms,
			c.StartDate.BR(),
			optionalDate(c.Deadline),
			optionalDate(c.EndDate),
			len(c.Contacts),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = file.SetCellValue(SheetContracts, cell, v)
		}
	}
	if len(contracts) > 0 {
		_ = file.SetCellStyle(SheetContracts, "C2", fmt.Sprintf("C%d", len(contracts)+1), money)
	}

	_ = file.SetColWidth(SheetContracts, "A", "A", 45)
	_ = file.SetColWidth(SheetContracts, "C", "C", 18)
	_ = file.SetColWidth(SheetContracts, "E", "H", 14)
	_ = file.SetColWidth(SheetContracts, "I", "K", 16)
	_ = file.SetPanes(SheetContracts, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (g *ExcelGenerator) writeStates(file *excelize.File, chart []domain.StateChartPoint, bold int) {
	headers := []string{"Estado", "Nº Contratos", "Unidades Instaladas", "Unidades Contratadas"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(SheetStates, cell, h)
	}
	_ = file.SetCellStyle(SheetStates, "A1", "D1", bold)

	for i, p := range chart {
		row := i + 2
		_ = file.SetCellValue(SheetStates, fmt.Sprintf("A%d", row), p.State)
		_ = file.SetCellValue(SheetStates, fmt.Sprintf("B%d", row), p.Count)
		_ = file.SetCellValue(SheetStates, fmt.Sprintf("C%d", row), p.Installed)
		_ = file.SetCellValue(SheetStates, fmt.Sprintf("D%d", row), p.Contracted)
	}
	_ = file.SetColWidth(SheetStates, "A", "D", 22)
}

func optionalDate(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.BR()
}
