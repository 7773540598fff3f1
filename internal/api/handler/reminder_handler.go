package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/core/model"
)

var validate = validator.New()

type ReminderHandler struct {
	Service *core.ReminderService
}

// CheckRemindersRequest is the optional body of POST /reminders/check.
type CheckRemindersRequest struct {
	LookbackDays *int `json:"lookbackDays" validate:"omitempty,min=1,max=30"`
}

// MissedTimesheets handles GET /reminders/missed?lookbackDays=N.
func (h *ReminderHandler) MissedTimesheets(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerID(w, r); !ok {
		return
	}

	days := core.DefaultLookbackDays
	if raw := r.URL.Query().Get("lookbackDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lookbackDays must be between 1 and 30")
			return
		}
		days = parsed
	}

	result, err := h.Service.MissedTimesheets(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MissedTimesheetsResponse{
		LookbackDays: result.LookbackDays,
		WindowStart:  result.Window.Start.Format(model.DateLayout),
		WindowEnd:    result.Window.End.Format(model.DateLayout),
		TotalUsers:   result.TotalUsers,
		Users:        toDefaulterViews(result.Users),
	})
}

// CheckReminders handles POST /reminders/check and runs a reminder batch synchronously.
func (h *ReminderHandler) CheckReminders(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerID(w, r); !ok {
		return
	}

	var req CheckRemindersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "lookbackDays must be between 1 and 30")
		return
	}

	days := core.DefaultLookbackDays
	if req.LookbackDays != nil {
		days = *req.LookbackDays
	}

	summary, err := h.Service.CheckAndNotify(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := CheckRemindersResponse{
		Message:      "Reminder check completed",
		LookbackDays: summary.LookbackDays,
		TotalUsers:   summary.TotalUsers,
		EmailsSent:   summary.EmailsSent,
		EmailsFailed: summary.EmailsFailed,
		Details:      make([]ReminderDetailView, 0, len(summary.Details)),
	}
	for _, d := range summary.Details {
		resp.Details = append(resp.Details, ReminderDetailView{
			Email:       d.Email,
			MissedDates: formatDates(d.MissedDates),
			Status:      string(d.Status),
			MessageID:   d.MessageID,
			Error:       d.Error,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
