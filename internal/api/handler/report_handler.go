package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/core/model"
	"timesheet.reports/internal/export"
	"timesheet.reports/internal/observability"
	"timesheet.reports/internal/render"
	"timesheet.reports/internal/render/pdf"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	Service *core.ReportService
	Exports *export.TempStore
	Now     func() time.Time
	// RenderPDF defaults to pdf.Render.
	RenderPDF func(io.Writer, *model.AggregateReport) error
}

func (h *ReportHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// clientReport resolves the path id and loads the caller's report for that client,
// writing the error response itself when anything fails.
func (h *ReportHandler) clientReport(w http.ResponseWriter, r *http.Request) (*model.AggregateReport, bool) {
	owner, ok := ownerID(w, r)
	if !ok {
		return nil, false
	}

	clientID, err := core.ParseClientID(mux.Vars(r)["clientId"])
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}

	report, err := h.Service.ClientReport(r.Context(), clientID, owner)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return report, true
}

// ClientReport handles GET /reports/client/{clientId}.
func (h *ReportHandler) ClientReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.clientReport(w, r)
	if !ok {
		return
	}
	observability.RecordReport("json", true)
	writeJSON(w, http.StatusOK, toClientReportResponse(report))
}

// ExportCSV handles GET /reports/export/csv/{clientId}. The file is staged on disk,
// streamed, and removed on every path out of the handler.
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.clientReport(w, r)
	if !ok {
		return
	}

	prefix := fmt.Sprintf("client_%d", report.Client.ID)
	h.serveStaged(w, r, "CSV", prefix, render.ReportFilename(report.Client.Name, "csv", h.now()), func(out io.Writer) error {
		return render.WriteClientCSV(out, report.WorkEntries)
	})
}

// ExportBulkCSV handles GET /reports/export/csv with optional from/to dates.
func (h *ReportHandler) ExportBulkCSV(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	from, err := optionalDate(r, "from")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	to, err := optionalDate(r, "to")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	entries, err := h.Service.OwnerEntries(r.Context(), owner, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("timesheet_export_%d.csv", h.now().UnixMilli())
	h.serveStaged(w, r, "CSV", "bulk_"+render.SanitizeFilename(owner), filename, func(out io.Writer) error {
		return render.WriteBulkCSV(out, entries)
	})
}

func (h *ReportHandler) serveStaged(w http.ResponseWriter, r *http.Request, artifact, prefix, filename string, write func(io.Writer) error) {
	staged, err := h.Exports.Stage(prefix, "csv", write)
	if err != nil {
		observability.RecordReport("csv", false)
		writeServiceError(w, r, core.GenerationError(artifact, err))
		return
	}
	defer staged.Release(r.Context())

	w.Header().Set("Content-Type", contentTypeCSV)
	w.Header().Set("Content-Disposition", render.ContentDisposition(filename))
	w.Header().Set("Content-Length", strconv.FormatInt(staged.Size, 10))
	w.WriteHeader(http.StatusOK)

	if err := staged.StreamTo(w); err != nil {
		observability.RecordReport("csv", false)
		log.Ctx(r.Context()).Error().Err(err).Str("file", filename).Msg("Failed to stream CSV report")
		return
	}
	observability.RecordReport("csv", true)
}

// ExportPDF handles GET /reports/export/pdf/{clientId}.
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.clientReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	renderPDF := h.RenderPDF
	if renderPDF == nil {
		renderPDF = pdf.Render
	}
	if err := renderPDF(&buf, report); err != nil {
		observability.RecordReport("pdf", false)
		writeServiceError(w, r, core.GenerationError("PDF", err))
		return
	}

	h.writeAttachment(w, r, "pdf", contentTypePDF, render.ReportFilename(report.Client.Name, "pdf", h.now()), buf.Bytes())
}

// ExportXLSX handles GET /reports/export/xlsx/{clientId}.
func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.clientReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteClientXLSX(&buf, report); err != nil {
		observability.RecordReport("xlsx", false)
		writeServiceError(w, r, core.GenerationError("XLSX", err))
		return
	}

	h.writeAttachment(w, r, "xlsx", contentTypeXLSX, render.ReportFilename(report.Client.Name, "xlsx", h.now()), buf.Bytes())
}

func (h *ReportHandler) writeAttachment(w http.ResponseWriter, r *http.Request, format, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", render.ContentDisposition(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		observability.RecordReport(format, false)
		log.Ctx(r.Context()).Error().Err(err).Str("file", filename).Msg("Failed to write report")
		return
	}
	observability.RecordReport(format, true)
}

// WeeklyDefaulters handles GET /reports/weekly-defaulters?weekStart=YYYY-MM-DD.
func (h *ReportHandler) WeeklyDefaulters(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerID(w, r); !ok {
		return
	}

	result, err := h.Service.WeeklyDefaulters(r.Context(), r.URL.Query().Get("weekStart"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyDefaultersResponse(result))
}

func optionalDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := core.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
