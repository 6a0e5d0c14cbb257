package conversation

import "sync"

// EntryStore holds the ordered entry list for the active conversation. It is
// the single source of truth for what is rendered: components mutate entries
// only through Append, Replace and Remove, never by direct assignment, which
// keeps the optimistic path and the reconciliation path from racing each
// other on reads-modify-writes.
type EntryStore struct {
	mu             sync.Mutex
	conversationID string
	entries        []Entry
	onChange       func()
}

// NewEntryStore returns an empty store bound to no conversation.
func NewEntryStore() *EntryStore {
	return &EntryStore{}
}

// Subscribe registers the render hook invoked after every mutation. Only one
// subscriber is supported; the rendering layer owns it.
func (s *EntryStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Reset replaces the store's contents with the given conversation's entries.
// Used when a conversation is activated.
func (s *EntryStore) Reset(conversationID string, entries []Entry) {
	s.mu.Lock()
	s.conversationID = conversationID
	s.entries = append([]Entry(nil), entries...)
	s.mu.Unlock()
	s.notify()
}

// ConversationID returns the id of the conversation currently loaded.
func (s *EntryStore) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Append inserts the entry at the tail. If an entry with the same id already
// exists this is a no-op, which guards against duplicate optimistic and
// authoritative writes racing.
func (s *EntryStore) Append(e Entry) bool {
	s.mu.Lock()
	if s.indexOf(e.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	s.notify()
	return true
}

// Replace merges the patch into the entry with the given id. Absent ids are
// a no-op: a reconciliation may arrive after the entry was already removed
// locally. The patch may change the entry's id (temp id to server id); when
// the new id already exists the patched entry folds into the existing one,
// so a reconciliation never mints two entries with the same id.
func (s *EntryStore) Replace(id string, patch EntryPatch) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if patch.ID != nil && *patch.ID != id {
		if j := s.indexOf(*patch.ID); j >= 0 {
			// The authoritative entry already arrived, e.g. via a reload
			// racing the confirmation. Keep it and its position; the
			// remaining patch fields apply to it.
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			if j > i {
				j--
			}
			i = j
			patch.ID = nil
		}
	}
	e := &s.entries[i]
	if patch.ID != nil {
		e.ID = *patch.ID
	}
	if patch.Content != nil {
		e.Content = *patch.Content
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.Payload != nil {
		e.Payload = patch.Payload
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// Remove deletes the entry with the given id. Idempotent.
func (s *EntryStore) Remove(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.mu.Unlock()
	s.notify()
	return true
}

// Get returns a copy of the entry with the given id.
func (s *EntryStore) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// Entries returns a copy of the ordered entry list.
func (s *EntryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *EntryStore) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *EntryStore) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
