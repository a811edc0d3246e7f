package memory

import (
	"cmp"
	"context"
	"slices"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planRepo struct {
	table[domain.Plan]
}

func (r *planRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.Slug == "" || plan.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.rows {
		if p.Slug == plan.Slug {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now()
	plan.UpdatedAt = plan.CreatedAt
	p := *plan
	p.Features = slices.Clone(plan.Features)
	r.put(plan.ID, p)
	return plan.ID, nil
}

func (r *planRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[id]
	if !ok {
		return nil, errNotFound
	}
	p.Features = slices.Clone(p.Features)
	return &p, nil
}

func (r *planRepo) GetBySlug(_ context.Context, slug string) (*domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.rows {
		if p.Slug == slug {
			p.Features = slices.Clone(p.Features)
			return &p, nil
		}
	}
	return nil, errNotFound
}

func (r *planRepo) List(_ context.Context) ([]domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Plan, 0, len(r.rows))
	r.each(func(p domain.Plan) {
		p.Features = slices.Clone(p.Features)
		out = append(out, p)
	})
	slices.SortStableFunc(out, func(a, b domain.Plan) int { return cmp.Compare(a.Price, b.Price) })
	return out, nil
}

func (r *planRepo) Update(_ context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[plan.ID]
	if !ok {
		return errNotFound
	}
	plan.Slug = p.Slug
	plan.CreatedAt = p.CreatedAt
	plan.UpdatedAt = now()
	updated := *plan
	updated.Features = slices.Clone(plan.Features)
	r.rows[plan.ID] = updated
	return nil
}

func (r *planRepo) ClearDefault(_ context.Context, keep primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.rows {
		if id != keep && p.IsDefault {
			p.IsDefault = false
			p.UpdatedAt = now()
			r.rows[id] = p
		}
	}
	return nil
}

func (r *planRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.remove(id) {
		return errNotFound
	}
	return nil
}
