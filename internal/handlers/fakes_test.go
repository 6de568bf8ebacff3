package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"AMESAI_BACK-END/internal/models"
	"AMESAI_BACK-END/internal/store"
)

// In-memory store fakes mirroring the Postgres implementations' contracts,
// including the cascade from user deletion to history entries.

type fakeUsers struct {
	users   map[uuid.UUID]*models.User
	history *fakeHistory // cascade target, may be nil
}

func newFakeUsers(history *fakeHistory) *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]*models.User{}, history: history}
}

func (f *fakeUsers) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return nil, store.ErrDuplicateUsername
		}
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, id uuid.UUID, username, passwordHash string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for otherID, other := range f.users {
		if otherID != id && other.Username == username {
			return nil, store.ErrDuplicateUsername
		}
	}
	u.Username = username
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	if f.history != nil {
		for entryID, e := range f.history.entries {
			if e.UserID == id {
				delete(f.history.entries, entryID)
			}
		}
	}
	return nil
}

type fakeHistory struct {
	entries map[uuid.UUID]*models.HistoryEntry
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{entries: map[uuid.UUID]*models.HistoryEntry{}}
}

func (f *fakeHistory) Record(_ context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.PredictedOn.IsZero() {
		entry.PredictedOn = time.Now()
	}
	stored := *entry
	f.entries[stored.ID] = &stored
	return &stored, nil
}

func featureValue(e *models.HistoryEntry, key string) (int, bool) {
	switch key {
	case "quality":
		return e.OverallQual, true
	case "area":
		return e.GrLivArea, true
	case "garage":
		return e.GarageCars, true
	case "basement":
		return e.TotalBsmtSF, true
	case "year":
		return e.YearBuilt, true
	}
	return 0, false
}

func sortValue(e *models.HistoryEntry, key store.SortKey) float64 {
	switch key {
	case store.SortByQuality:
		return float64(e.OverallQual)
	case store.SortByArea:
		return float64(e.GrLivArea)
	case store.SortByGarage:
		return float64(e.GarageCars)
	case store.SortByBasement:
		return float64(e.TotalBsmtSF)
	case store.SortByYear:
		return float64(e.YearBuilt)
	case store.SortByPrediction:
		return e.Prediction
	default:
		return float64(e.PredictedOn.UnixNano())
	}
}

func (f *fakeHistory) List(_ context.Context, ownerID uuid.UUID, filters store.Filters, s store.Sort) ([]models.HistoryEntry, error) {
	matches := []models.HistoryEntry{}
	for _, e := range f.entries {
		if e.UserID != ownerID {
			continue
		}
		keep := true
		for key, want := range filters {
			if got, ok := featureValue(e, key); !ok || got != want {
				keep = false
				break
			}
		}
		if keep {
			matches = append(matches, *e)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := sortValue(&matches[i], s.Key), sortValue(&matches[j], s.Key)
		if a == b {
			return matches[i].ID.String() < matches[j].ID.String()
		}
		if s.Desc {
			return a > b
		}
		return a < b
	})

	return matches, nil
}

func (f *fakeHistory) Get(_ context.Context, id uuid.UUID) (*models.HistoryEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeHistory) Delete(_ context.Context, id, requesterID uuid.UUID) error {
	e, ok := f.entries[id]
	if !ok {
		return store.ErrNotFound
	}
	if e.UserID != requesterID {
		return store.ErrForbidden
	}
	delete(f.entries, id)
	return nil
}
