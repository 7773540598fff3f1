package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and rendering format for calendar dates.
const DateLayout = "2006-01-02"

// ReminderStatus defines the outcome of a single reminder dispatch.
type ReminderStatus string

const (
	ReminderSent   ReminderStatus = "sent"
	ReminderFailed ReminderStatus = "failed"
)

// WorkEntry is a single timesheet line owned by one user and logged against one client.
type WorkEntry struct {
	ID          int64           `json:"id"`
	OwnerID     string          `json:"userId"`
	ClientID    int64           `json:"clientId"`
	ClientName  string          `json:"clientName,omitempty"`
	Hours       decimal.Decimal `json:"hours"`
	Description *string         `json:"description"`
	Date        time.Time       `json:"date"`
	Billable    bool            `json:"billable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Client struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	OwnerID     string  `json:"userId"`
	Department  *string `json:"department,omitempty"`
	Email       *string `json:"email,omitempty"`
	Description *string `json:"description,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExistedOn reports whether the account was created on or before the given day.
func (u User) ExistedOn(day time.Time) bool {
	return !DateOf(u.CreatedAt).After(DateOf(day))
}

// AggregateReport is built per request and never stored.
type AggregateReport struct {
	Client      Client          `json:"client"`
	WorkEntries []WorkEntry     `json:"workEntries"`
	TotalHours  decimal.Decimal `json:"totalHours"`
	EntryCount  int             `json:"entryCount"`
}

// ComplianceWindow is an inclusive range of calendar days.
type ComplianceWindow struct {
	Start time.Time
	End   time.Time
}

// Days lists every calendar day in the window, oldest first.
func (w ComplianceWindow) Days() []time.Time {
	var days []time.Time
	for d := DateOf(w.Start); !d.After(DateOf(w.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day falls inside the window.
func (w ComplianceWindow) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(w.Start)) && !d.After(DateOf(w.End))
}

// Submission is a distinct (user, day) pair with at least one work entry.
type Submission struct {
	UserID string
	Date   time.Time
}

type DefaulterRecord struct {
	UserID      string      `json:"userId"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	MissedDates []time.Time `json:"missedDates,omitempty"`
}

type ReminderOutcome struct {
	Email       string         `json:"email"`
	MissedDates []time.Time    `json:"missedDates"`
	Status      ReminderStatus `json:"status"`
	MessageID   string         `json:"messageId,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
