package memory

import (
	"context"
	"strings"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepo struct {
	table[domain.User]
}

func (r *userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range r.rows {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	r.put(user.ID, *user)
	return user.ID, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errNotFound
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.rows[id]
	if !ok {
		return nil, errNotFound
	}
	return &u, nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[user.ID]
	if !ok {
		return errNotFound
	}
	u.Name = user.Name
	u.AvatarURL = user.AvatarURL
	u.Plan = user.Plan
	u.DarkMode = user.DarkMode
	u.UpdatedAt = now()
	user.UpdatedAt = u.UpdatedAt
	r.rows[user.ID] = u
	return nil
}
