package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 14.0
	pdfRowHeight  = 7.0
	pdfBottomGap  = 18.0
	contractLabel = 30
)

type rgb struct{ r, g, b int }

var (
	titleColor     = rgb{30, 64, 175}
	mutedColor     = rgb{100, 100, 100}
	bodyColor      = rgb{60, 60, 60}
	contractsColor = rgb{30, 64, 175}
	statesColor    = rgb{16, 185, 129}
	stripeColor    = rgb{241, 245, 249}
)

// PDFGenerator renders the strategic contract report
type PDFGenerator struct {
	brand string
}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{brand: "ContractGov"}
}

// Generate lays out the header, executive summary, the contract table and the
// per-state table on A4 pages. Table headers repeat after every page break.
func (g *PDFGenerator) Generate(contracts []domain.ContractDTO, metrics domain.DashboardMetrics, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomGap)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "", 8)
		setText(pdf, rgb{150, 150, 150})
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s - Página %d de {nb}", g.brand, pdf.PageNo())), "", 0, "L", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 20)
	setText(pdf, titleColor)
	pdf.CellFormat(0, 10, tr("Relatório Estratégico de Contratos"), "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "", 10)
	setText(pdf, mutedColor)
	pdf.CellFormat(0, 6, "Gerado em: "+now.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	sectionTitle(pdf, tr, "Resumo Executivo")
	pdf.SetFont(pdfFont, "", 10)
	setText(pdf, bodyColor)
	for _, line := range summaryLines(metrics, len(contracts)) {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	if len(contracts) > 0 {
		sectionTitle(pdf, tr, "Lista de Contratos")
		headers := []string{"Cliente/Órgão", "UF", "Valor", "Status", "Elev. Inst/Tot", "Plat. Inst/Tot"}
		widths := []float64{56, 15, 34, 27, 25, 25}
		rows := make([][]string, 0, len(contracts))
		for _, c := range contracts {
			rows = append(rows, []string{
				Truncate(c.ClientAgency, contractLabel),
				c.State,
				FormatBRL(c.GlobalValue),
				string(c.Status),
				ratio(c.InstalledElevators, c.ElevatorsQty),
				ratio(c.InstalledPlatforms, c.PlatformsQty),
			})
		}
		drawTable(pdf, tr, headers, widths, rows, contractsColor, true)
		pdf.Ln(10)
	}

	if len(metrics.Chart) > 0 {
		ensureSpace(pdf, 3*pdfRowHeight)
		sectionTitle(pdf, tr, "Estatísticas por Estado")
		headers := []string{"Estado", "Nº Contratos", "Unidades Instaladas", "Unidades Contratadas"}
		widths := []float64{40, 40, 50, 52}
		rows := make([][]string, 0, len(metrics.Chart))
		for _, p := range metrics.Chart {
			rows = append(rows, []string{
				p.State,
				strconv.Itoa(p.Count),
				strconv.Itoa(p.Installed),
				strconv.Itoa(p.Contracted),
			})
		}
		drawTable(pdf, tr, headers, widths, rows, statesColor, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLines(m domain.DashboardMetrics, total int) []string {
	return []string{
		"Faturamento Anual: " + FormatBRL(m.SalesYear),
		"Faturamento Global: " + FormatBRL(m.GlobalSales),
		fmt.Sprintf("Contratos Ativos: %d", m.ActiveCount),
		fmt.Sprintf("Contratos Pendentes: %d", m.PendingCount),
		fmt.Sprintf("Total de Contratos: %d", total),
		"",
		fmt.Sprintf("Elevadores Instalados: %d de %d contratados", m.InstalledElevators, m.TotalElevators),
		fmt.Sprintf("Plataformas Instaladas: %d de %d contratadas", m.InstalledPlatforms, m.TotalPlatforms),
		fmt.Sprintf("Total Geral Instalado: %d unidades", m.InstalledElevators+m.InstalledPlatforms),
	}
}

func sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(pdfFont, "B", 14)
	setText(pdf, rgb{0, 0, 0})
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, headers []string, widths []float64, rows [][]string, head rgb, striped bool) {
	drawHeader := func() {
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(head.r, head.g, head.b)
		setText(pdf, rgb{255, 255, 255})
		for i, h := range headers {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont, "", 8)
		setText(pdf, rgb{0, 0, 0})
	}

	drawHeader()
	for n, row := range rows {
		if !fits(pdf, pdfRowHeight) {
			pdf.AddPage()
			drawHeader()
		}
		fill := striped && n%2 == 1
		pdf.SetFillColor(stripeColor.r, stripeColor.g, stripeColor.b)
		for i, cell := range row {
			align := "L"
			if i > 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func fits(pdf *gofpdf.Fpdf, height float64) bool {
	_, pageHeight := pdf.GetPageSize()
	return pdf.GetY()+height <= pageHeight-pdfBottomGap
}

func ensureSpace(pdf *gofpdf.Fpdf, height float64) {
	if !fits(pdf, height) {
		pdf.AddPage()
	}
}

func setText(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
