package repository

import (
	"context"
	"time"

	"timesheet.reports/internal/core/model"
)

// Repository contract for the read side consumed by reports and reminders.
type Repository interface {
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	ListWorkEntriesByClient(ctx context.Context, clientID int64, ownerID string) ([]model.WorkEntry, error)
	ListWorkEntriesByOwner(ctx context.Context, ownerID string, from, to *time.Time) ([]model.WorkEntry, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListWorkEntryOwnersInRange(ctx context.Context, start, end time.Time) (map[string]struct{}, error)
	ListSubmissionDays(ctx context.Context, start, end time.Time) ([]model.Submission, error)
}
