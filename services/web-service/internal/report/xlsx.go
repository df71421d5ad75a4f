package report

import (
	"fmt"
	"io"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet      = "Resumo"
	AppointmentsSheet = "Agendamentos"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var appointmentColumns = []string{"ID", "Cliente", "Serviço", "Valor", "Data", "Hora", "Status", "Origem"}

// WriteXLSX writes the summary and the appointment list as a workbook.
func WriteXLSX(w io.Writer, s Summary, items []model.AppointmentRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AppointmentsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", AppointmentsSheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money := "\"R$\" #,##0.00"
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return err
	}

	period := s.Period
	if period == "" {
		period = "Todo o período"
	}
	summaryRows := [][]any{
		{"Período", period},
		{"Clientes cadastrados", s.RegisteredClients},
		{"Clientes atendidos", s.ClientsServed},
		{"Agendamentos", s.Appointments},
		{"Finalizados", s.Completed},
		{"Pendentes", s.Pending},
		{"Faturamento bruto", format.Reais(s.GrossCents)},
		{"Ticket médio", format.Reais(s.AverageTicketCents)},
		{"Pelo app", s.BySource[model.SourceApp]},
		{"Pelo Telegram", s.BySource[model.SourceTelegram]},
	}
	for i, row := range summaryRows {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summaryRows)), bold)
	_ = f.SetCellStyle(SummarySheet, "B7", "B8", currency)
	_ = f.SetColWidth(SummarySheet, "A", "A", 24)

	header := make([]any, len(appointmentColumns))
	for i, c := range appointmentColumns {
		header[i] = c
	}
	if err := writeRow(f, AppointmentsSheet, 1, header); err != nil {
		return err
	}
	_ = f.SetCellStyle(AppointmentsSheet, "A1", "H1", bold)

	for i, it := range items {
		row := []any{
			it.ID,
			it.CustomerName,
			it.Service.Name,
			format.Reais(it.Service.PriceCents),
			it.DisplayDate,
			it.DisplayTime,
			it.Status.Label(),
			it.Source.Label(),
		}
		if err := writeRow(f, AppointmentsSheet, i+2, row); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		_ = f.SetCellStyle(AppointmentsSheet, "D2", fmt.Sprintf("D%d", len(items)+1), currency)
	}
	_ = f.SetColWidth(AppointmentsSheet, "B", "C", 22)

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
