// Package directory implements the phone book: an in-memory set of
// contact entries keyed by national ID, with validation on insert and
// whole-file persistence.
//
// Every operation reports failure through an *Error whose Kind names
// the rule that was violated. A failed operation never changes the
// store.
package directory

import (
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Store holds phone book entries keyed by national ID.
type Store struct {
	entries map[string]*Entry // Map of national ID to entry
	mu      sync.RWMutex

	strictUpdates bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStrictUpdates makes Update apply the same name and phone number
// checks as Add. Without it Update accepts any values.
func WithStrictUpdates() StoreOption {
	return func(s *Store) {
		s.strictUpdates = true
	}
}

// NewStore creates an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates and inserts a new entry. Checks run in order (ID,
// duplicate ID, name, phone number) and stop at the first failure.
func (s *Store) Add(nationalID, name, phoneNumber string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nationalID == "" {
		return Entry{}, ErrNoNationalID
	}
	if _, exists := s.entries[nationalID]; exists {
		return Entry{}, ErrDuplicateNationalID
	}
	if err := ValidateName(name); err != nil {
		return Entry{}, err
	}
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return Entry{}, err
	}

	entry := &Entry{NationalID: nationalID, Name: name, PhoneNumber: phoneNumber}
	s.entries[nationalID] = entry
	return *entry, nil
}

// Get retrieves an entry by national ID
func (s *Store) Get(nationalID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.lookup(nationalID)
	if err != nil {
		return Entry{}, err
	}
	return *entry, nil
}

// List returns every entry ordered by name, or ErrEmpty when the store
// has no entries.
func (s *Store) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, ErrEmpty
	}

	result := s.snapshot()
	c := collate.New(language.Und)
	sort.SliceStable(result, func(i, j int) bool {
		return c.CompareString(result[i].Name, result[j].Name) < 0
	})
	return result, nil
}

// Search returns entries whose ID, name or phone number contains term,
// ignoring case. Results are ordered by national ID.
func (s *Store) Search(term string) ([]Entry, error) {
	if term == "" {
		return nil, ErrNoSearchTerm
	}

	fold := cases.Fold()
	needle := fold.String(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Entry
	for _, entry := range s.snapshot() {
		if entry.containsFolded(fold, needle) {
			result = append(result, entry)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoMatches
	}
	return result, nil
}

// Match is Search with a glob pattern: an entry matches when any whole
// field matches pattern, ignoring case.
func (s *Store) Match(pattern string) ([]Entry, error) {
	if pattern == "" {
		return nil, ErrNoSearchTerm
	}

	fold := cases.Fold()
	g, err := glob.Compile(fold.String(pattern))
	if err != nil {
		return nil, &Error{Kind: KindInvalidPattern, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Entry
	for _, entry := range s.snapshot() {
		if entry.matchesGlob(fold, g) {
			result = append(result, entry)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoMatches
	}
	return result, nil
}

// Update replaces the name and phone number of an existing entry. The
// national ID never changes.
func (s *Store) Update(nationalID, name, phoneNumber string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(nationalID)
	if err != nil {
		return Entry{}, err
	}

	if s.strictUpdates {
		if err := ValidateName(name); err != nil {
			return Entry{}, err
		}
		if err := ValidatePhoneNumber(phoneNumber); err != nil {
			return Entry{}, err
		}
	}

	entry.Name = name
	entry.PhoneNumber = phoneNumber
	return *entry, nil
}

// Delete removes an entry by national ID
func (s *Store) Delete(nationalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(nationalID); err != nil {
		return err
	}

	delete(s.entries, nationalID)
	return nil
}

// Count returns the number of entries
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// lookup must be called with s.mu held.
func (s *Store) lookup(nationalID string) (*Entry, error) {
	if nationalID == "" {
		return nil, ErrNoNationalID
	}
	entry, exists := s.entries[nationalID]
	if !exists {
		return nil, ErrNotFound
	}
	return entry, nil
}

// snapshot copies all entries ordered by national ID. Must be called
// with s.mu held.
func (s *Store) snapshot() []Entry {
	result := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NationalID < result[j].NationalID
	})
	return result
}

// replace swaps in a new set of entries. Candidates with an empty ID
// are skipped; the caller has already rejected duplicates.
func (s *Store) replace(candidates []Entry) {
	entries := make(map[string]*Entry, len(candidates))
	for _, c := range candidates {
		if c.NationalID == "" {
			continue
		}
		entry := c
		entries[c.NationalID] = &entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}
