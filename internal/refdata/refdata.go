// Package refdata loads the static option lists behind the registration
// selects: capital cities, states, PIN codes and languages.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"resume-builder/internal/domain"
)

// Kind names one reference list.
type Kind string

const (
	Cities    Kind = "cities"
	States    Kind = "states"
	Pincodes  Kind = "pincodes"
	Languages Kind = "languages"
)

// Kinds lists every reference list in load order.
var Kinds = []Kind{Cities, States, Pincodes, Languages}

// field is the JSON property holding the option label in each file.
var field = map[Kind]string{
	Cities:    "capital",
	States:    "name",
	Pincodes:  "pincode",
	Languages: "name",
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := field[k]
	return k, ok
}

// Store holds every list, read once at startup.
type Store struct {
	lists map[Kind][]string
}

// Load reads <dir>/<kind>.json for every kind. A missing or unreadable file
// fails the whole load.
func Load(dir string) (*Store, error) {
	s := &Store{lists: make(map[Kind][]string, len(Kinds))}
	for _, k := range Kinds {
		path := filepath.Join(dir, string(k)+".json")
		items, err := readList(path, field[k])
		if err != nil {
			return nil, &domain.CollaboratorError{Op: "load " + string(k), Err: err}
		}
		s.lists[k] = items
	}
	return s, nil
}

// New builds a store from in-memory lists.
func New(lists map[Kind][]string) *Store {
	s := &Store{lists: make(map[Kind][]string, len(lists))}
	for k, v := range lists {
		s.lists[k] = slices.Clone(v)
	}
	return s
}

func readList(path, key string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		// PIN codes may be numbers in the source files.
		label := strings.TrimSpace(fmt.Sprint(v))
		if label != "" {
			out = append(out, label)
		}
	}
	return out, nil
}

// List returns a copy of the options of kind k.
func (s *Store) List(k Kind) []string {
	return slices.Clone(s.lists[k])
}

// Has reports whether v is one of the options of kind k.
func (s *Store) Has(k Kind, v string) bool {
	return slices.Contains(s.lists[k], strings.TrimSpace(v))
}
