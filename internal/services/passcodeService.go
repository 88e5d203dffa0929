package services

import (
	"strings"
	"sync"
	"time"

	"allo/internal/utils"
)

type passcodeEntry struct {
	code      string
	expiresAt time.Time
}

// PasscodeStore holds short-lived single-use login codes keyed by
// normalized email. All state lives in memory; expired entries are
// evicted lazily on read, there is no background sweep.
type PasscodeStore struct {
	mu      sync.Mutex
	entries map[string]passcodeEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewPasscodeStore(ttl time.Duration) *PasscodeStore {
	return &PasscodeStore{
		entries: make(map[string]passcodeEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NormalizeEmail lower-cases and trims an email for use as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a fresh six digit code for the email and stores it,
// replacing any previous entry for the same address. Last issued wins.
func (s *PasscodeStore) Issue(email string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[NormalizeEmail(email)] = passcodeEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// VerifyAndConsume checks the submitted code against the stored entry.
// It fails closed: no entry, expired entry, or mismatch all return
// false. A match deletes the entry so a code can be used at most once.
// A mismatch leaves the entry in place.
func (s *PasscodeStore) VerifyAndConsume(email, submitted string) bool {
	key := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return false
	}
	if entry.code != strings.TrimSpace(submitted) {
		return false
	}
	delete(s.entries, key)
	return true
}

// Peek returns the live code for the email without consuming it. It
// honors expiry the same way VerifyAndConsume does and exists for
// diagnostics only; nothing in the authenticated path calls it.
func (s *PasscodeStore) Peek(email string) (string, bool) {
	key := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return entry.code, true
}
