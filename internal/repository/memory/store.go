// Package memory implements the repository interfaces on process memory.
// Nothing is durable; it backs database.driver=memory and the test suites.
package memory

import (
	"slices"
	"sync"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStore returns a Store whose repositories share nothing but the clock.
func NewStore() *repository.Store {
	clients := &clientRepo{table: newTable[domain.Client]()}
	return &repository.Store{
		Users:     &userRepo{table: newTable[domain.User]()},
		Clients:   clients,
		Exercises: &exerciseRepo{table: newTable[domain.Exercise]()},
		Workouts:  &workoutRepo{table: newTable[domain.Workout]()},
		Payments:  &paymentRepo{table: newTable[domain.Payment](), clients: clients},
		Plans:     &planRepo{table: newTable[domain.Plan]()},
		Uploads:   &uploadRepo{table: newTable[domain.Upload]()},
	}
}

// table is the shared storage shape: a guarded map plus insertion order.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
}

func newTable[T any]() table[T] {
	return table[T]{rows: map[primitive.ObjectID]T{}}
}

func (t *table[T]) put(id primitive.ObjectID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(o primitive.ObjectID) bool { return o == id })
	return true
}

func (t *table[T]) each(fn func(T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func now() time.Time {
	return time.Now().UTC()
}

var errNotFound = repository.ErrNotFound
