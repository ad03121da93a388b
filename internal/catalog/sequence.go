package catalog

import "sync"

// Sequencer orders asynchronous loads by issuance. A result is committed only
// when no later-issued load has committed before it.
type Sequencer struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
}

// Issue hands out the next sequence number.
func (s *Sequencer) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit records seq as the newest applied result. It reports false when seq
// is superseded and its result must be dropped. apply runs under the lock.
func (s *Sequencer) Commit(seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.committed || seq > s.issued {
		return false
	}
	s.committed = seq
	if apply != nil {
		apply()
	}
	return true
}

// Latest returns the last issued sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}
