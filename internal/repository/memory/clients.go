package memory

import (
	"context"
	"slices"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type clientRepo struct {
	table[domain.Client]
}

func cloneClient(c domain.Client) domain.Client {
	c.Measurements = slices.Clone(c.Measurements)
	c.WorkoutIDs = slices.Clone(c.WorkoutIDs)
	c.PaymentIDs = slices.Clone(c.PaymentIDs)
	if c.Measurements == nil {
		c.Measurements = []domain.Measurement{}
	}
	if c.WorkoutIDs == nil {
		c.WorkoutIDs = []primitive.ObjectID{}
	}
	if c.PaymentIDs == nil {
		c.PaymentIDs = []primitive.ObjectID{}
	}
	return c
}

func (r *clientRepo) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	client.ID = primitive.NewObjectID()
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	r.put(client.ID, cloneClient(*client))
	return client.ID, nil
}

func (r *clientRepo) GetByID(_ context.Context, id, trainerID primitive.ObjectID) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.rows[id]
	if !ok || c.TrainerID != trainerID {
		return nil, errNotFound
	}
	c = cloneClient(c)
	return &c, nil
}

func (r *clientRepo) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	return r.filter(func(c domain.Client) bool { return c.TrainerID == trainerID }), nil
}

func (r *clientRepo) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error) {
	clients, err := r.ListByTrainer(ctx, trainerID)
	return len(clients), err
}

func (r *clientRepo) CreatedSince(_ context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Client, error) {
	out := r.filter(func(c domain.Client) bool {
		return c.TrainerID == trainerID && !c.CreatedAt.Before(since)
	})
	slices.Reverse(out)
	return out, nil
}

// filter returns matching rows newest first.
func (r *clientRepo) filter(keep func(domain.Client) bool) []domain.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Client{}
	r.each(func(c domain.Client) {
		if keep(c) {
			out = append(out, cloneClient(c))
		}
	})
	slices.Reverse(out)
	return out
}

func (r *clientRepo) Update(_ context.Context, client *domain.Client) error {
	return r.mutate(client.ID, client.TrainerID, func(c *domain.Client) {
		c.Name = client.Name
		c.Email = client.Email
		c.Phone = client.Phone
		c.Age = client.Age
		c.Gender = client.Gender
		c.Goal = client.Goal
		c.Status = client.Status
		c.StartDate = client.StartDate
		c.AvatarURL = client.AvatarURL
		c.MedicalHistory = client.MedicalHistory
		c.Notes = client.Notes
		c.PlanID = client.PlanID
	})
}

func (r *clientRepo) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok || c.TrainerID != trainerID {
		return errNotFound
	}
	r.remove(id)
	return nil
}

func (r *clientRepo) AppendMeasurement(_ context.Context, id, trainerID primitive.ObjectID, m domain.Measurement) error {
	return r.mutate(id, trainerID, func(c *domain.Client) {
		c.Measurements = append(c.Measurements, m)
		slices.SortStableFunc(c.Measurements, func(a, b domain.Measurement) int {
			return a.Date.Compare(b.Date)
		})
	})
}

func (r *clientRepo) AddWorkout(_ context.Context, id, trainerID, workoutID primitive.ObjectID) error {
	return r.mutate(id, trainerID, func(c *domain.Client) {
		if !slices.Contains(c.WorkoutIDs, workoutID) {
			c.WorkoutIDs = append(c.WorkoutIDs, workoutID)
		}
	})
}

func (r *clientRepo) RemoveWorkout(_ context.Context, id, trainerID, workoutID primitive.ObjectID) error {
	return r.mutate(id, trainerID, func(c *domain.Client) {
		c.WorkoutIDs = slices.DeleteFunc(c.WorkoutIDs, func(w primitive.ObjectID) bool { return w == workoutID })
	})
}

func (r *clientRepo) AddPayment(_ context.Context, id, trainerID, paymentID primitive.ObjectID) error {
	return r.mutate(id, trainerID, func(c *domain.Client) {
		if !slices.Contains(c.PaymentIDs, paymentID) {
			c.PaymentIDs = append(c.PaymentIDs, paymentID)
		}
	})
}

func (r *clientRepo) RemovePayment(_ context.Context, id, trainerID, paymentID primitive.ObjectID) error {
	return r.mutate(id, trainerID, func(c *domain.Client) {
		c.PaymentIDs = slices.DeleteFunc(c.PaymentIDs, func(p primitive.ObjectID) bool { return p == paymentID })
	})
}

func (r *clientRepo) mutate(id, trainerID primitive.ObjectID, fn func(*domain.Client)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok || c.TrainerID != trainerID {
		return errNotFound
	}
	c = cloneClient(c)
	fn(&c)
	c.UpdatedAt = now()
	r.rows[id] = c
	return nil
}

// name returns the display name for the payment join. Missing clients join as "".
func (r *clientRepo) name(id primitive.ObjectID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rows[id].Name
}
