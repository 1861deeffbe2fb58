// Package memory implementa el Ledger Store en memoria. Las transacciones se serializan
// bajo un único mutex y trabajan sobre una copia del estado que solo se publica en Commit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]entity.Product
	skuIndex   map[string]string // sku -> product id
	operations map[string]entity.Operation
	moves      map[string]entity.StockMove
	users      map[string]entity.User
	emailIndex map[string]string // email -> user id
	changes    []entity.ChangeLogEntry
	version    int64
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		skuIndex:   make(map[string]string),
		operations: make(map[string]entity.Operation),
		moves:      make(map[string]entity.StockMove),
		users:      make(map[string]entity.User),
		emailIndex: make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:   make(map[string]entity.Product, len(s.products)),
		skuIndex:   make(map[string]string, len(s.skuIndex)),
		operations: make(map[string]entity.Operation, len(s.operations)),
		moves:      make(map[string]entity.StockMove, len(s.moves)),
		users:      make(map[string]entity.User, len(s.users)),
		emailIndex: make(map[string]string, len(s.emailIndex)),
		changes:    append([]entity.ChangeLogEntry(nil), s.changes...),
		version:    s.version,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.skuIndex {
		c.skuIndex[k] = v
	}
	for k, v := range s.operations {
		c.operations[k] = v
	}
	for k, v := range s.moves {
		c.moves[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.emailIndex {
		c.emailIndex[k] = v
	}
	return c
}

// Store Ledger Store en memoria; seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve adaptadores que toman el lock en cada llamada.
func (s *Store) Repositories() repository.Repositories {
	return s.bind(nil)
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al estado solo si fn devuelve nil
// dentro de repository.TxTimeout.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, repository.TxTimeout)
	defer cancel()

	tx := s.st.clone()
	if err := fn(s.bind(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func (s *Store) bind(tx *state) repository.Repositories {
	b := binding{store: s, tx: tx}
	return repository.Repositories{
		Products:   &productRepo{b},
		Operations: &operationRepo{b},
		StockMoves: &stockMoveRepo{b},
		Users:      &userRepo{b},
		Changes:    &changeLogRepo{b},
	}
}

// binding resuelve sobre qué estado opera un repo: el de la tx en curso o el publicado (con lock).
type binding struct {
	store *Store
	tx    *state
}

func (b binding) with(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
}
