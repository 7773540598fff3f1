// Package repotest provides an in-memory Repository for tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"timesheet.reports/internal/core/model"
)

// Memory is a Repository backed by slices. Setting Err makes every call fail with it.
type Memory struct {
	mu      sync.Mutex
	Clients map[int64]model.Client
	Entries []model.WorkEntry
	Users   []model.User
	Err     error
}

func NewMemory() *Memory {
	return &Memory{Clients: make(map[int64]model.Client)}
}

func (m *Memory) AddClient(c model.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clients[c.ID] = c
}

func (m *Memory) AddUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, u)
}

// AddEntry stores e, assigning an id when it has none.
func (m *Memory) AddEntry(e model.WorkEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = int64(len(m.Entries) + 1)
	}
	if c, ok := m.Clients[e.ClientID]; ok && e.ClientName == "" {
		e.ClientName = c.Name
	}
	e.Date = model.DateOf(e.Date)
	m.Entries = append(m.Entries, e)
}

func (m *Memory) GetClient(_ context.Context, id int64) (*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) ListWorkEntriesByClient(_ context.Context, clientID int64, ownerID string) ([]model.WorkEntry, error) {
	return m.filter(func(e model.WorkEntry) bool {
		return e.ClientID == clientID && e.OwnerID == ownerID
	})
}

func (m *Memory) ListWorkEntriesByOwner(_ context.Context, ownerID string, from, to *time.Time) ([]model.WorkEntry, error) {
	return m.filter(func(e model.WorkEntry) bool {
		if e.OwnerID != ownerID {
			return false
		}
		if from != nil && e.Date.Before(model.DateOf(*from)) {
			return false
		}
		if to != nil && e.Date.After(model.DateOf(*to)) {
			return false
		}
		return true
	})
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	users := append([]model.User(nil), m.Users...)
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *Memory) ListWorkEntryOwnersInRange(_ context.Context, start, end time.Time) (map[string]struct{}, error) {
	window := model.ComplianceWindow{Start: start, End: end}
	entries, err := m.filter(func(e model.WorkEntry) bool { return window.Contains(e.Date) })
	if err != nil {
		return nil, err
	}
	owners := make(map[string]struct{})
	for _, e := range entries {
		owners[e.OwnerID] = struct{}{}
	}
	return owners, nil
}

func (m *Memory) ListSubmissionDays(_ context.Context, start, end time.Time) ([]model.Submission, error) {
	window := model.ComplianceWindow{Start: start, End: end}
	entries, err := m.filter(func(e model.WorkEntry) bool { return window.Contains(e.Date) })
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Submission]struct{})
	var subs []model.Submission
	for _, e := range entries {
		s := model.Submission{UserID: e.OwnerID, Date: e.Date}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		subs = append(subs, s)
	}
	return subs, nil
}

// filter returns matching entries newest first, like the SQL implementation.
func (m *Memory) filter(keep func(model.WorkEntry) bool) ([]model.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.WorkEntry, 0)
	for _, e := range m.Entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
