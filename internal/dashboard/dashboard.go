// Package dashboard serves the user management view: listing, search,
// statistics and export of registered users.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
)

const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// TopCities is how many cities Stats reports.
const TopCities = 5

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	City           string `json:"city"`
	UserType       string `json:"userType"`
	OnboardingDate string `json:"onboardingDate"`
	LastActive     string `json:"lastActive,omitempty"`
}

// Source lists users from a backing store.
type Source interface {
	Users(ctx context.Context) ([]User, error)
}

// FileSource reads users from a JSON array on disk.
type FileSource struct {
	Path string
}

func (f FileSource) Users(_ context.Context) ([]User, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path, err)
	}
	return users, nil
}

// Store keeps the users shown on the dashboard. Refresh reloads them from
// the source; Add appends a newly registered user.
type Store struct {
	src   Source
	mu    sync.RWMutex
	users []User
}

func NewStore(src Source) *Store {
	return &Store{src: src}
}

func (s *Store) Refresh(ctx context.Context) error {
	if s.src == nil {
		return nil
	}
	users, err := s.src.Users(ctx)
	if err != nil {
		return fmt.Errorf("refresh users: %w", err)
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

func (s *Store) Add(u User) {
	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()
}

// All returns a copy of every user.
func (s *Store) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Search returns users whose name, city, status or type contains q,
// ignoring case. An empty query matches everyone.
func (s *Store) Search(q string) []User {
	return Search(s.All(), q)
}

func Search(users []User, q string) []User {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]User, 0, len(users))
	for _, u := range users {
		if q == "" || matches(u, q) {
			out = append(out, u)
		}
	}
	return out
}

func matches(u User, q string) bool {
	for _, f := range []string{u.Name, u.City, u.Status, u.UserType} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type TypeShare struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type Stats struct {
	Total     int         `json:"total"`
	Active    int         `json:"active"`
	Inactive  int         `json:"inactive"`
	Suspended int         `json:"suspended"`
	Types     []TypeShare `json:"types"`
	Cities    []CityCount `json:"cities"`
}

func (s *Store) Stats() Stats {
	return ComputeStats(s.All())
}

// ComputeStats counts users per status, their share per type (percent to one
// decimal) and the busiest cities.
func ComputeStats(users []User) Stats {
	st := Stats{Total: len(users), Types: []TypeShare{}, Cities: []CityCount{}}
	types := map[string]int{}
	cities := map[string]int{}
	var typeOrder []string
	for _, u := range users {
		switch u.Status {
		case StatusActive:
			st.Active++
		case StatusInactive:
			st.Inactive++
		case StatusSuspended:
			st.Suspended++
		}
		if _, ok := types[u.UserType]; !ok {
			typeOrder = append(typeOrder, u.UserType)
		}
		types[u.UserType]++
		cities[u.City]++
	}

	for _, t := range typeOrder {
		pct := float64(types[t]) / float64(len(users)) * 100
		st.Types = append(st.Types, TypeShare{Type: t, Count: types[t], Percent: roundTenth(pct)})
	}

	for c, n := range cities {
		st.Cities = append(st.Cities, CityCount{City: c, Count: n})
	}
	sort.Slice(st.Cities, func(i, j int) bool {
		if st.Cities[i].Count != st.Cities[j].Count {
			return st.Cities[i].Count > st.Cities[j].Count
		}
		return st.Cities[i].City < st.Cities[j].City
	})
	if len(st.Cities) > TopCities {
		st.Cities = st.Cities[:TopCities]
	}
	return st
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
