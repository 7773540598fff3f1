package handler

import (
	"time"

	"timesheet.reports/internal/core"
	"timesheet.reports/internal/core/model"
)

type WorkEntryView struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	ClientID    int64     `json:"clientId"`
	Hours       float64   `json:"hours"`
	Description *string   `json:"description"`
	Date        string    `json:"date"`
	Billable    bool      `json:"billable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ClientReportResponse struct {
	Client      model.Client    `json:"client"`
	WorkEntries []WorkEntryView `json:"workEntries"`
	TotalHours  float64         `json:"totalHours"`
	EntryCount  int             `json:"entryCount"`
}

type DefaulterView struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	MissedDates []string `json:"missedDates,omitempty"`
}

type WeeklyDefaultersResponse struct {
	WeekStart      string          `json:"weekStart"`
	WeekEnd        string          `json:"weekEnd"`
	TotalUsers     int             `json:"totalUsers"`
	SubmittedCount int             `json:"submittedCount"`
	DefaulterCount int             `json:"defaulterCount"`
	Defaulters     []DefaulterView `json:"defaulters"`
}

type MissedTimesheetsResponse struct {
	LookbackDays int             `json:"lookbackDays"`
	WindowStart  string          `json:"windowStart"`
	WindowEnd    string          `json:"windowEnd"`
	TotalUsers   int             `json:"totalUsers"`
	Users        []DefaulterView `json:"users"`
}

type ReminderDetailView struct {
	Email       string   `json:"email"`
	MissedDates []string `json:"missedDates"`
	Status      string   `json:"status"`
	MessageID   string   `json:"messageId,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type CheckRemindersResponse struct {
	Message      string               `json:"message"`
	LookbackDays int                  `json:"lookbackDays"`
	TotalUsers   int                  `json:"totalUsers"`
	EmailsSent   int                  `json:"emailsSent"`
	EmailsFailed int                  `json:"emailsFailed"`
	Details      []ReminderDetailView `json:"details"`
}

func toWorkEntryView(e model.WorkEntry) WorkEntryView {
	return WorkEntryView{
		ID:          e.ID,
		UserID:      e.OwnerID,
		ClientID:    e.ClientID,
		Hours:       e.Hours.InexactFloat64(),
		Description: e.Description,
		Date:        e.Date.Format(model.DateLayout),
		Billable:    e.Billable,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toClientReportResponse(report *model.AggregateReport) ClientReportResponse {
	resp := ClientReportResponse{
		Client:      report.Client,
		WorkEntries: make([]WorkEntryView, 0, len(report.WorkEntries)),
		TotalHours:  report.TotalHours.InexactFloat64(),
		EntryCount:  report.EntryCount,
	}
	for _, e := range report.WorkEntries {
		resp.WorkEntries = append(resp.WorkEntries, toWorkEntryView(e))
	}
	return resp
}

func toDefaulterViews(records []model.DefaulterRecord) []DefaulterView {
	views := make([]DefaulterView, 0, len(records))
	for _, d := range records {
		views = append(views, DefaulterView{
			UserID:      d.UserID,
			Email:       d.Email,
			Name:        d.Name,
			MissedDates: formatDates(d.MissedDates),
		})
	}
	return views
}

func toWeeklyDefaultersResponse(result *core.WeeklyDefaulters) WeeklyDefaultersResponse {
	return WeeklyDefaultersResponse{
		WeekStart:      result.WeekStart.Format(model.DateLayout),
		WeekEnd:        result.WeekEnd.Format(model.DateLayout),
		TotalUsers:     result.TotalUsers,
		SubmittedCount: result.SubmittedCount,
		DefaulterCount: result.DefaulterCount,
		Defaulters:     toDefaulterViews(result.Defaulters),
	}
}

func formatDates(dates []time.Time) []string {
	if len(dates) == 0 {
		return nil
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(model.DateLayout))
	}
	return out
}
