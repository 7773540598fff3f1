package core

import (
	"context"
	"time"

	"timesheet.reports/internal/core/model"
	"timesheet.reports/internal/ports/repository"
)

type ReportService struct {
	repo repository.Repository
}

// NewReportService wires the report use cases to the record store.
func NewReportService(repo repository.Repository) *ReportService {
	return &ReportService{repo: repo}
}

// ClientReport fetches a client and the caller's entries for it and totals the hours.
func (s *ReportService) ClientReport(ctx context.Context, clientID int64, ownerID string) (*model.AggregateReport, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		return nil, UpstreamError(err)
	}
	if client == nil {
		return nil, NotFoundError("Client not found")
	}

	entries, err := s.repo.ListWorkEntriesByClient(ctx, clientID, ownerID)
	if err != nil {
		return nil, UpstreamError(err)
	}

	totals := AggregateHours(entries)
	return &model.AggregateReport{
		Client:      *client,
		WorkEntries: entries,
		TotalHours:  totals.TotalHours,
		EntryCount:  totals.EntryCount,
	}, nil
}

// OwnerEntries lists every entry of the caller for the bulk export.
func (s *ReportService) OwnerEntries(ctx context.Context, ownerID string, from, to *time.Time) ([]model.WorkEntry, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ValidationError("from must not be after to")
	}
	entries, err := s.repo.ListWorkEntriesByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, UpstreamError(err)
	}
	return entries, nil
}

// WeeklyDefaulters validates weekStart and lists the users without entries that week.
func (s *ReportService) WeeklyDefaulters(ctx context.Context, rawWeekStart string) (*WeeklyDefaulters, error) {
	weekStart, err := ParseWeekStart(rawWeekStart)
	if err != nil {
		return nil, err
	}
	window := WeekWindow(weekStart)

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, UpstreamError(err)
	}
	submitted, err := s.repo.ListWorkEntryOwnersInRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, UpstreamError(err)
	}

	result := DetectDefaulters(window, users, submitted)
	return &result, nil
}
