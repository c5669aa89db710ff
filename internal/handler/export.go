package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/towtrack/backend/internal/domain"
)

// reportHeaders defines the column names of both the CSV and XLSX exports.
var reportHeaders = []string{
	"trip_id", "trip_at", "driver", "client", "vehicle", "license_plate",
	"pickup", "dropoff", "distance_km", "cost", "cash_amount", "extra_cost",
	"status", "notes", "admin_notes",
}

// handleExportTrips implements GET /export/trips: the flat trip report in
// JSON (default), CSV (?format=csv), or Excel (?format=xlsx). The report
// honors the same filters and access scoping as trip listing.
func (s *Server) handleExportTrips(w http.ResponseWriter, r *http.Request) {
	filter, _, err := tripQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	rows, err := s.export.Report(r.Context(), actor(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		writeCSVReport(w, rows)
	case "xlsx":
		writeXLSXReport(w, r, rows)
	case "", "json":
		respondJSON(w, http.StatusOK, map[string]any{"data": rows})
	default:
		badRequest(w, "format must be json, csv, or xlsx")
	}
}

// writeCSVReport encodes the report as CSV with one line per trip.
func writeCSVReport(w http.ResponseWriter, rows []domain.TripReportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(reportHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(reportRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeXLSXReport encodes the report as a single-sheet Excel workbook.
func writeXLSXReport(w http.ResponseWriter, r *http.Request, rows []domain.TripReportRow) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trips"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]any, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		writeError(w, r, err)
		return
	}

	for i, row := range rows {
		record := reportRecord(row)
		cells := make([]any, len(record))
		for j, v := range record {
			cells[j] = v
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			writeError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		slog.ErrorContext(r.Context(), "write xlsx export", "error", err)
	}
}

// setRow writes one spreadsheet row starting at column A.
func setRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("handler.export: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("handler.export: set row: %w", err)
	}
	return nil
}

// reportRecord encodes one report row as a flat string slice.
// Nil money values are encoded as empty strings.
func reportRecord(row domain.TripReportRow) []string {
	return []string{
		row.TripID.String(),
		row.TripAt.UTC().Format(time.RFC3339),
		row.DriverName,
		row.ClientName,
		row.Vehicle,
		row.LicensePlate,
		row.Pickup,
		row.Dropoff,
		row.DistanceKm.String(),
		formatOptionalMoney(row.Cost),
		formatOptionalMoney(row.CashAmount),
		formatOptionalMoney(row.ExtraCost),
		string(row.Status),
		row.Notes,
		row.AdminNotes,
	}
}

// formatOptionalMoney returns the two-decimal representation of m, or "" if nil.
func formatOptionalMoney(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}
