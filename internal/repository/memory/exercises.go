package memory

import (
	"cmp"
	"context"
	"slices"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type exerciseRepo struct {
	table[domain.Exercise]
}

func (r *exerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = now()
	exercise.UpdatedAt = exercise.CreatedAt
	r.put(exercise.ID, *exercise)
	return exercise.ID, nil
}

func (r *exerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, errNotFound
	}
	return &e, nil
}

func (r *exerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Exercise, 0, len(r.rows))
	r.each(func(e domain.Exercise) { out = append(out, e) })
	slices.SortStableFunc(out, func(a, b domain.Exercise) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *exerciseRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}

func (r *exerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID || exercise.Name == "" {
		return repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[exercise.ID]
	if !ok {
		return errNotFound
	}
	exercise.CreatedBy = e.CreatedBy
	exercise.CreatedAt = e.CreatedAt
	exercise.UpdatedAt = now()
	r.rows[exercise.ID] = *exercise
	return nil
}

func (r *exerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.remove(id) {
		return errNotFound
	}
	return nil
}
