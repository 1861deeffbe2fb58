package otp

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
)

var _ auth.OTPStore = (*MemoryStore)(nil)

type memoryEntry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// MemoryStore almacén de OTP en proceso. Solo sirve con una única instancia del servidor.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	maxAttempts int
	now         func() time.Time
}

// NewMemoryStore crea el almacén. maxAttempts <= 0 desactiva el límite de intentos.
func NewMemoryStore(maxAttempts int) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), maxAttempts: maxAttempts, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Put guarda el código reemplazando la entrada previa.
func (s *MemoryStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume compara y elimina bajo el mismo lock.
func (s *MemoryStore) Consume(_ context.Context, email, code string) (auth.ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return auth.ConsumeMissing, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, email)
		return auth.ConsumeExpired, nil
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		e.attempts++
		if s.maxAttempts > 0 && e.attempts >= s.maxAttempts {
			delete(s.entries, email)
		} else {
			s.entries[email] = e
		}
		return auth.ConsumeMismatch, nil
	}
	delete(s.entries, email)
	return auth.ConsumeValid, nil
}

// PurgeExpired elimina entradas vencidas.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for email, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, email)
			n++
		}
	}
	return n, nil
}

// Len cantidad de entradas (vencidas incluidas).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunJanitor purga vencidos cada interval hasta que ctx se cancela.
func RunJanitor(ctx context.Context, store auth.OTPStore, interval time.Duration, onPurge func(n int, err error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if onPurge != nil {
				onPurge(n, err)
			}
		}
	}
}
