package seen

import (
	"encoding/json"
	"sort"

	"go-jobwatch/internal/errors"
)

// Set holds the identities already notified. It only grows; nothing is ever
// expired or removed. Not safe for concurrent use.
type Set struct {
	ids map[string]struct{}
}

func NewSet(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add inserts id and reports whether it was new.
func (s *Set) Add(id string) bool {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s Set) Len() int { return len(s.ids) }

// Sorted returns the identities in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// encode renders the set as the persisted JSON array.
func encode(s Set) ([]byte, error) {
	return json.MarshalIndent(s.Sorted(), "", "  ")
}

// decode parses a persisted JSON array. Any other shape is corrupt state.
func decode(data []byte) (Set, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return Set{}, errors.Mark(errors.Wrap(err, "decode seen set"), ErrCorruptState)
	}
	return NewSet(ids...), nil
}
