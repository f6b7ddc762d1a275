// Package memstore keeps accounts, trains and reservations in process memory.
// It implements every repository interface and db.Transactor, so services and
// the booking coordinator run against it unchanged. Transactions record undo
// actions and replay them in reverse when the transaction function fails.
package memstore

import (
	"context"
	"sync"
	"time"

	"railbook/pkg/db"
	"railbook/pkg/model"
)

type txKey struct{}

type undoLog struct {
	actions []func()
}

type Store struct {
	mu sync.Mutex

	accounts     map[int64]*model.Account
	userNames    map[string]int64
	credentials  map[int64]*model.Credential
	trains       map[int64]*model.TrainSchedule
	reservations []*model.Reservation
	nextUserID   int64

	reservationErr error
	credentialErr  error

	now func() time.Time
}

func New() *Store {
	return &Store{
		accounts:    make(map[int64]*model.Account),
		userNames:   make(map[string]int64),
		credentials: make(map[int64]*model.Credential),
		trains:      make(map[int64]*model.TrainSchedule),
		now:         time.Now,
	}
}

var _ db.Transactor = (*Store)(nil)

// WithinTransaction joins an enclosing transaction when ctx already carries
// one.
func (s *Store) WithinTransaction(ctx context.Context, fn db.TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.actions) - 1; i >= 0; i-- {
			log.actions[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// FailReservations makes every reservation insert return err until it is
// called again with nil.
func (s *Store) FailReservations(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservationErr = err
}

// FailCredentials does the same for credential inserts.
func (s *Store) FailCredentials(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentialErr = err
}

// onRollback must be called with s.mu held.
func onRollback(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*undoLog); ok {
		log.actions = append(log.actions, undo)
	}
}

func (s *Store) Accounts() *AccountStore {
	return &AccountStore{s: s}
}

func (s *Store) Trains() *TrainStore {
	return &TrainStore{s: s}
}

func (s *Store) Reservations() *ReservationStore {
	return &ReservationStore{s: s}
}
