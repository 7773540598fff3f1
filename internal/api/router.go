package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timesheet.reports/internal/api/handler"
	"timesheet.reports/internal/auth"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(reports *handler.ReportHandler, reminders *handler.ReminderHandler, authMiddleware auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Wrap)

	api.HandleFunc("/reports/client/{clientId}", reports.ClientReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/export/csv", reports.ExportBulkCSV).Methods(http.MethodGet)
	api.HandleFunc("/reports/export/csv/{clientId}", reports.ExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/reports/export/pdf/{clientId}", reports.ExportPDF).Methods(http.MethodGet)
	api.HandleFunc("/reports/export/xlsx/{clientId}", reports.ExportXLSX).Methods(http.MethodGet)
	api.HandleFunc("/reports/weekly-defaulters", reports.WeeklyDefaulters).Methods(http.MethodGet)

	api.HandleFunc("/reminders/missed", reminders.MissedTimesheets).Methods(http.MethodGet)
	api.HandleFunc("/reminders/check", reminders.CheckReminders).Methods(http.MethodPost)

	return r
}
