package memory

import (
	"context"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type uploadRepo struct {
	table[domain.Upload]
}

func (r *uploadRepo) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	if upload.OwnerID == primitive.NilObjectID || upload.ObjectKey == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = now()
	r.put(upload.ID, *upload)
	return upload.ID, nil
}

// LatestByOwner returns the last inserted upload of kind for ownerID.
func (r *uploadRepo) LatestByOwner(_ context.Context, ownerID primitive.ObjectID, kind domain.UploadKind) (*domain.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.Upload
	r.each(func(u domain.Upload) {
		if u.OwnerID == ownerID && u.Kind == kind {
			latest = &u
		}
	})
	if latest == nil {
		return nil, errNotFound
	}
	return latest, nil
}

func (r *uploadRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.remove(id) {
		return errNotFound
	}
	return nil
}
