package service

import (
	"errors"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

// mutationError re-signals a store failure as a client or server fault.
func mutationError(err error) error {
	if errors.Is(err, repository.ErrIntegrity) {
		return models.NewIntegrityError(err)
	}
	return models.NewStorageError(err)
}

// lookupError maps a missing row to NotFound and anything else to a storage fault.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewStorageError(err)
}
