package memory

import (
	"context"
	"slices"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type paymentRepo struct {
	table[domain.Payment]
	clients *clientRepo
}

func (r *paymentRepo) Create(_ context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	if payment.ClientID == primitive.NilObjectID || payment.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = now()
	payment.UpdatedAt = payment.CreatedAt
	r.put(payment.ID, *payment)
	return payment.ID, nil
}

func (r *paymentRepo) GetByID(_ context.Context, id, trainerID primitive.ObjectID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[id]
	if !ok || p.TrainerID != trainerID {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *paymentRepo) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.PaymentWithClient, error) {
	rows := r.owned(trainerID, time.Time{})
	slices.SortStableFunc(rows, func(a, b domain.Payment) int { return b.Date.Compare(a.Date) })

	out := make([]domain.PaymentWithClient, len(rows))
	for i, p := range rows {
		out[i] = domain.PaymentWithClient{Payment: p, ClientName: r.clients.name(p.ClientID)}
	}
	return out, nil
}

func (r *paymentRepo) Since(_ context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Payment, error) {
	rows := r.owned(trainerID, since)
	slices.SortStableFunc(rows, func(a, b domain.Payment) int { return a.Date.Compare(b.Date) })
	return rows, nil
}

func (r *paymentRepo) owned(trainerID primitive.ObjectID, since time.Time) []domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Payment{}
	r.each(func(p domain.Payment) {
		if p.TrainerID == trainerID && !p.Date.Before(since) {
			out = append(out, p)
		}
	})
	return out
}

func (r *paymentRepo) UpdateStatus(_ context.Context, id, trainerID primitive.ObjectID, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok || p.TrainerID != trainerID {
		return errNotFound
	}
	p.Status = status
	p.UpdatedAt = now()
	r.rows[id] = p
	return nil
}

func (r *paymentRepo) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok || p.TrainerID != trainerID {
		return errNotFound
	}
	r.remove(id)
	return nil
}
