package repository

import (
	"context"
	"errors"

	"github.com/placementai/placement-predictor/internal/apperror"
	"gorm.io/gorm"
)

// mapStoreErr normalizes gorm errors into the app taxonomy: absent rows
// become ErrNotFound, context timeouts and cancellations become retryable
// TransientStoreError, everything else passes through.
func mapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &apperror.TransientStoreError{Op: op, Err: err}
	}
	return err
}
