package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"timesheet.reports/internal/core/model"
)

// ReportRepository is the concrete implementation for a PostgreSQL database.
type ReportRepository struct {
	DB *sql.DB
}

// NewReportRepository create new instance
func NewReportRepository(db *sql.DB) Repository {
	return &ReportRepository{DB: db}
}

// GetClient fetches a client by id. Clients are visible to every authenticated user.
func (r *ReportRepository) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.clientId", id))

	query := `SELECT id, name, user_id, department, email, description
	          FROM clients WHERE id = $1`

	var (
		c                              model.Client
		department, email, description sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.OwnerID, &department, &email, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Department = nullString(department)
	c.Email = nullString(email)
	c.Description = nullString(description)
	return &c, nil
}

// ListWorkEntriesByClient returns the owner's entries for one client, newest first.
func (r *ReportRepository) ListWorkEntriesByClient(ctx context.Context, clientID int64, ownerID string) ([]model.WorkEntry, error) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("app.clientId", clientID),
		attribute.String("app.userId", ownerID),
	)

	query := `SELECT we.id, we.user_id, we.client_id, c.name, we.hours, we.description, we.date,
	                 we.billable, we.created_at, we.updated_at
	          FROM work_entries we
	          JOIN clients c ON c.id = we.client_id
	          WHERE we.client_id = $1 AND we.user_id = $2
	          ORDER BY we.date DESC, we.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, clientID, ownerID)
	if err != nil {
		return nil, err
	}
	return scanWorkEntries(rows)
}

// ListWorkEntriesByOwner returns every entry of the owner across clients, optionally
// bounded by an inclusive date range.
func (r *ReportRepository) ListWorkEntriesByOwner(ctx context.Context, ownerID string, from, to *time.Time) ([]model.WorkEntry, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", ownerID))

	var (
		sb   strings.Builder
		args = []any{ownerID}
	)
	sb.WriteString(`SELECT we.id, we.user_id, we.client_id, c.name, we.hours, we.description, we.date,
	                 we.billable, we.created_at, we.updated_at
	          FROM work_entries we
	          JOIN clients c ON c.id = we.client_id
	          WHERE we.user_id = $1`)
	if from != nil {
		args = append(args, model.DateOf(*from))
		fmt.Fprintf(&sb, " AND we.date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, model.DateOf(*to))
		fmt.Fprintf(&sb, " AND we.date <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY we.date DESC, we.id DESC")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanWorkEntries(rows)
}

// ListUsers returns every known user.
func (r *ReportRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, email, COALESCE(name, ''), created_at FROM users ORDER BY email`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListWorkEntryOwnersInRange returns the distinct users with at least one entry in [start, end].
func (r *ReportRepository) ListWorkEntryOwnersInRange(ctx context.Context, start, end time.Time) (map[string]struct{}, error) {
	query := `SELECT DISTINCT user_id FROM work_entries WHERE date >= $1 AND date <= $2`

	rows, err := r.DB.QueryContext(ctx, query, model.DateOf(start), model.DateOf(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners[id] = struct{}{}
	}
	return owners, rows.Err()
}

// ListSubmissionDays returns the distinct (user, day) pairs with entries in [start, end].
func (r *ReportRepository) ListSubmissionDays(ctx context.Context, start, end time.Time) ([]model.Submission, error) {
	query := `SELECT DISTINCT user_id, date FROM work_entries WHERE date >= $1 AND date <= $2`

	rows, err := r.DB.QueryContext(ctx, query, model.DateOf(start), model.DateOf(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.UserID, &s.Date); err != nil {
			return nil, err
		}
		s.Date = model.DateOf(s.Date)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func scanWorkEntries(rows *sql.Rows) ([]model.WorkEntry, error) {
	defer rows.Close()

	entries := make([]model.WorkEntry, 0)
	for rows.Next() {
		var (
			we          model.WorkEntry
			description sql.NullString
		)
		err := rows.Scan(&we.ID, &we.OwnerID, &we.ClientID, &we.ClientName, &we.Hours, &description,
			&we.Date, &we.Billable, &we.CreatedAt, &we.UpdatedAt)
		if err != nil {
			return nil, err
		}
		we.Description = nullString(description)
		we.Date = model.DateOf(we.Date)
		entries = append(entries, we)
	}
	return entries, rows.Err()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
