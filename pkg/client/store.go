package client

import (
	"context"
	"strings"
	"sync"
)

// Gateway is the API surface the store drives. *Client implements it.
type Gateway interface {
	ListMeals(ctx context.Context) ([]MealView, error)
	SearchMeals(ctx context.Context, query string) ([]MealView, error)
	CreateMeal(ctx context.Context, meal NewMeal) (MealView, error)
	UpdateMeal(ctx context.Context, id string, meal MealEdit) (MealView, error)
	DeleteMeal(ctx context.Context, id string) error
}

// OpStatus is the phase of one asynchronous store operation.
type OpStatus int

const (
	OpIdle OpStatus = iota
	OpPending
	OpSucceeded
	OpFailed
)

// OpState tracks one operation as a unit: an error is only ever present in
// the failed state.
type OpState struct {
	Status OpStatus
	Err    error
}

type lastAction int

const (
	actionNone lastAction = iota
	actionFetch
	actionSearch
)

// MealsStore is the client-side state container. It mirrors the meal list
// and keeps independent per-operation states so a failed delete cannot
// clobber a successful fetch. Search is an overlay: entering or leaving
// search mode never mutates Meals.
type MealsStore struct {
	mu  sync.Mutex
	api Gateway

	meals []MealView

	fetch  OpState
	create OpState
	update OpState
	remove OpState
	search OpState

	searchQuery   string
	searchResults []MealView
	inSearchMode  bool

	last      lastAction
	lastQuery string
}

// NewMealsStore creates an empty store over the given gateway.
func NewMealsStore(api Gateway) *MealsStore {
	return &MealsStore{api: api}
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	Meals         []MealView
	Fetch         OpState
	Create        OpState
	Update        OpState
	Delete        OpState
	Search        OpState
	SearchQuery   string
	SearchResults []MealView
	InSearchMode  bool
}

// Snapshot returns a copy of the current state.
func (s *MealsStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Meals:         append([]MealView(nil), s.meals...),
		Fetch:         s.fetch,
		Create:        s.create,
		Update:        s.update,
		Delete:        s.remove,
		Search:        s.search,
		SearchQuery:   s.searchQuery,
		SearchResults: append([]MealView(nil), s.searchResults...),
		InSearchMode:  s.inSearchMode,
	}
}

// FetchMeals replaces the meal list. On failure the previous list is kept
// and the error is recorded in the fetch state: stale-but-available beats
// empty-on-error.
func (s *MealsStore) FetchMeals(ctx context.Context) {
	s.mu.Lock()
	s.fetch = OpState{Status: OpPending}
	s.last = actionFetch
	s.mu.Unlock()

	meals, err := s.api.ListMeals(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fetch = OpState{Status: OpFailed, Err: err}
		return
	}
	s.meals = meals
	s.fetch = OpState{Status: OpSucceeded}
}

// CreateMeal creates a meal and prepends it to the list. The failure is
// recorded in the create state and also returned, so callers can react
// immediately.
func (s *MealsStore) CreateMeal(ctx context.Context, meal NewMeal) error {
	s.mu.Lock()
	s.create = OpState{Status: OpPending}
	s.mu.Unlock()

	created, err := s.api.CreateMeal(ctx, meal)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.create = OpState{Status: OpFailed, Err: err}
		return err
	}
	s.meals = append([]MealView{created}, s.meals...)
	s.create = OpState{Status: OpSucceeded}
	return nil
}

// UpdateMealByID updates a meal in place. Failures are recorded and
// returned.
func (s *MealsStore) UpdateMealByID(ctx context.Context, id string, meal MealEdit) error {
	s.mu.Lock()
	s.update = OpState{Status: OpPending}
	s.mu.Unlock()

	updated, err := s.api.UpdateMeal(ctx, id, meal)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.update = OpState{Status: OpFailed, Err: err}
		return err
	}
	for i := range s.meals {
		if s.meals[i].ID == id {
			s.meals[i] = updated
		}
	}
	s.update = OpState{Status: OpSucceeded}
	return nil
}

// DeleteMealByID removes a meal from the list. On failure the list is
// untouched; the error is recorded and returned.
func (s *MealsStore) DeleteMealByID(ctx context.Context, id string) error {
	s.mu.Lock()
	s.remove = OpState{Status: OpPending}
	s.mu.Unlock()

	err := s.api.DeleteMeal(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.remove = OpState{Status: OpFailed, Err: err}
		return err
	}
	kept := s.meals[:0]
	for _, meal := range s.meals {
		if meal.ID != id {
			kept = append(kept, meal)
		}
	}
	s.meals = kept
	s.remove = OpState{Status: OpSucceeded}
	return nil
}

// SearchMeals runs a search and enters search mode. A blank query is a
// no-op. Results land in the search overlay; Meals is never touched.
func (s *MealsStore) SearchMeals(ctx context.Context, query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	s.search = OpState{Status: OpPending}
	s.searchQuery = trimmed
	s.inSearchMode = true
	s.last = actionSearch
	s.lastQuery = trimmed
	s.mu.Unlock()

	results, err := s.api.SearchMeals(ctx, trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.search = OpState{Status: OpFailed, Err: err}
		return
	}
	s.searchResults = results
	s.search = OpState{Status: OpSucceeded}
}

// ClearSearch leaves search mode and resets the whole search overlay in one
// step. Meals is untouched.
func (s *MealsStore) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchQuery = ""
	s.searchResults = nil
	s.search = OpState{}
	s.inSearchMode = false
	if s.last == actionSearch {
		s.last = actionNone
	}
}

// Retry re-runs the last fetch or search. There is no automatic retry or
// backoff; this is the manual retry the UI exposes.
func (s *MealsStore) Retry(ctx context.Context) {
	s.mu.Lock()
	last, query := s.last, s.lastQuery
	s.mu.Unlock()

	switch last {
	case actionFetch:
		s.FetchMeals(ctx)
	case actionSearch:
		s.SearchMeals(ctx, query)
	}
}
