package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/report"
	"github.com/google/uuid"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overdueStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#C0392B"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderMetrics(w io.Writer, m domain.DashboardMetrics) {
	fmt.Fprintln(w, titleStyle.Render("Resumo Executivo"))
	kpis := newTable("Indicador", "Valor").Rows(
		[]string{"Faturamento do ano", report.FormatBRL(m.SalesYear)},
		[]string{"Faturamento do mês", report.FormatBRL(m.SalesMonth)},
		[]string{"Faturamento global", report.FormatBRL(m.GlobalSales)},
		[]string{"Contratos ativos", strconv.Itoa(m.ActiveCount)},
		[]string{"Contratos pendentes", strconv.Itoa(m.PendingCount)},
		[]string{"Total de contratos", strconv.Itoa(m.TotalCount)},
		[]string{"Elevadores instalados", fmt.Sprintf("%d de %d", m.InstalledElevators, m.TotalElevators)},
		[]string{"Plataformas instaladas", fmt.Sprintf("%d de %d", m.InstalledPlatforms, m.TotalPlatforms)},
		[]string{"Unidades instaladas", fmt.Sprintf("%d de %d", m.TotalInstalled, m.TotalContracted)},
	)
	fmt.Fprintln(w, kpis.Render())

	if len(m.Chart) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Estatísticas por Estado"))
	states := newTable("UF", "Contratos", "Instalados", "Contratados")
	for _, p := range m.Chart {
		states.Row(p.State, strconv.Itoa(p.Count), strconv.Itoa(p.Installed), strconv.Itoa(p.Contracted))
	}
	fmt.Fprintln(w, states.Render())
}

func renderContracts(w io.Writer, contracts []domain.ContractDTO) {
	if len(contracts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nenhum contrato encontrado"))
		return
	}
	t := newTable("ID", "Órgão", "UF", "Valor", "Status", "Elev.", "Plat.", "Prazo")
	for _, c := range contracts {
		t.Row(
			fullID(c.ID),
			report.Truncate(c.ClientAgency, 30),
			c.State,
			report.FormatBRL(c.GlobalValue),
			string(c.Status),
			fmt.Sprintf("%d/%d", c.InstalledElevators, c.ElevatorsQty),
			fmt.Sprintf("%d/%d", c.InstalledPlatforms, c.PlatformsQty),
			optionalDate(c.Deadline),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d contrato(s)", len(contracts))))
}

func renderContract(w io.Writer, c domain.ContractDTO) {
	fmt.Fprintln(w, titleStyle.Render(c.ClientAgency))
	fields := newTable("Campo", "Valor").Rows(
		[]string{"ID", fullID(c.ID)},
		[]string{"UF", c.State},
		[]string{"Status", string(c.Status)},
		[]string{"Valor global", report.FormatBRL(c.GlobalValue)},
		[]string{"Objeto", c.Scope},
		[]string{"Elevadores", fmt.Sprintf("%d de %d instalados", c.InstalledElevators, c.ElevatorsQty)},
		[]string{"Plataformas", fmt.Sprintf("%d de %d instaladas", c.InstalledPlatforms, c.PlatformsQty)},
		[]string{"Início", c.StartDate.String()},
		[]string{"Encerramento", optionalDate(c.EndDate)},
		[]string{"Prazo de execução", optionalDate(c.Deadline)},
		[]string{"Instalação concluída", optionalDate(c.InstallationCompletedAt)},
		[]string{"Garantia até", optionalDate(c.WarrantyExpiresAt)},
	)
	fmt.Fprintln(w, fields.Render())

	if len(c.Contacts) == 0 {
		return
	}
	contacts := newTable("Contato", "Email", "Telefone")
	for _, ct := range c.Contacts {
		contacts.Row(ct.Name, ct.Email, ct.Phone)
	}
	fmt.Fprintln(w, contacts.Render())
}

func renderDeadlines(w io.Writer, alerts []domain.DeadlineAlert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nenhum prazo próximo"))
		return
	}
	t := newTable("Órgão", "UF", "Status", "Prazo", "Situação").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(alerts) && alerts[row].Overdue {
				return overdueStyle
			}
			return cellStyle
		})
	for _, a := range alerts {
		t.Row(report.Truncate(a.ClientAgency, 30), a.State, string(a.Status), a.Deadline.String(), deadlineLabel(a))
	}
	fmt.Fprintln(w, t.Render())
}

func deadlineLabel(a domain.DeadlineAlert) string {
	switch {
	case a.Overdue:
		return fmt.Sprintf("Vencido há %d dia(s)", -a.DaysRemaining)
	case a.DaysRemaining == 0:
		return "Vence hoje"
	default:
		return fmt.Sprintf("Vence em %d dia(s)", a.DaysRemaining)
	}
}

func optionalDate(d *domain.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func fullID(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
