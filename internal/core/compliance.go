package core

import (
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"timesheet.reports/internal/core/model"
)

const (
	DefaultLookbackDays = 7
	MinLookbackDays     = 1
	MaxLookbackDays     = 30
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	validate    = validator.New()
)

// WeeklyDefaulters is the result of one weekly compliance check.
type WeeklyDefaulters struct {
	WeekStart      time.Time
	WeekEnd        time.Time
	TotalUsers     int
	SubmittedCount int
	DefaulterCount int
	Defaulters     []model.DefaulterRecord
}

// ParseWeekStart validates a YYYY-MM-DD string. A missing value, a malformed value and
// a well-formed but impossible date are reported with distinct messages.
func ParseWeekStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ValidationError("weekStart query parameter is required")
	}
	return ParseDate(raw)
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	if !datePattern.MatchString(raw) {
		return time.Time{}, ValidationError("Invalid date format. Use YYYY-MM-DD")
	}
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, ValidationError("Invalid date provided")
	}
	return t, nil
}

// ParseClientID accepts positive base-10 integers only.
func ParseClientID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ValidationError("Invalid client ID")
	}
	return id, nil
}

// ValidateLookbackDays enforces the allowed reminder lookback range.
func ValidateLookbackDays(days int) error {
	if err := validate.Var(days, "min=1,max=30"); err != nil {
		return ValidationError("lookbackDays must be between 1 and 30")
	}
	return nil
}

// WeekWindow returns the inclusive seven day window starting at weekStart.
func WeekWindow(weekStart time.Time) model.ComplianceWindow {
	start := model.DateOf(weekStart)
	return model.ComplianceWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// TrailingWindow covers the lookbackDays full days before now, excluding today.
func TrailingWindow(now time.Time, lookbackDays int) model.ComplianceWindow {
	today := model.DateOf(now)
	return model.ComplianceWindow{
		Start: today.AddDate(0, 0, -lookbackDays),
		End:   today.AddDate(0, 0, -1),
	}
}

// DetectDefaulters computes users − submitted for the window. Users created after the
// window closed are not counted at all.
func DetectDefaulters(window model.ComplianceWindow, users []model.User, submitted map[string]struct{}) WeeklyDefaulters {
	result := WeeklyDefaulters{
		WeekStart:  window.Start,
		WeekEnd:    window.End,
		Defaulters: make([]model.DefaulterRecord, 0),
	}

	for _, u := range users {
		if !u.ExistedOn(window.End) {
			continue
		}
		result.TotalUsers++
		if _, ok := submitted[u.ID]; ok {
			result.SubmittedCount++
			continue
		}
		result.Defaulters = append(result.Defaulters, model.DefaulterRecord{
			UserID: u.ID,
			Email:  u.Email,
			Name:   u.Name,
		})
	}

	result.DefaulterCount = len(result.Defaulters)
	return result
}

// DetectMissedDays treats every day of the window as its own compliance window and
// returns, per user, the days on which the user existed but logged nothing.
func DetectMissedDays(window model.ComplianceWindow, users []model.User, subs []model.Submission) []model.DefaulterRecord {
	submitted := make(map[string]map[time.Time]struct{})
	for _, s := range subs {
		if !window.Contains(s.Date) {
			continue
		}
		days, ok := submitted[s.UserID]
		if !ok {
			days = make(map[time.Time]struct{})
			submitted[s.UserID] = days
		}
		days[model.DateOf(s.Date)] = struct{}{}
	}

	days := window.Days()
	records := make([]model.DefaulterRecord, 0)
	for _, u := range users {
		var missed []time.Time
		for _, day := range days {
			if !u.ExistedOn(day) {
				continue
			}
			if _, ok := submitted[u.ID][day]; ok {
				continue
			}
			missed = append(missed, day)
		}
		if len(missed) == 0 {
			continue
		}
		records = append(records, model.DefaulterRecord{
			UserID:      u.ID,
			Email:       u.Email,
			Name:        u.Name,
			MissedDates: missed,
		})
	}
	return records
}
