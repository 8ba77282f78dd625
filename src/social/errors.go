package social

import (
	"errors"
	"fmt"

	"github.com/theleywin/feed-backend/src/store"
)

var (
	// ErrNotFound matches every missing-entity error below.
	ErrNotFound        = errors.New("not found")
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrNotBookmarked means the profile and post exist but the edge does not.
	ErrNotBookmarked = errors.New("post has not been bookmarked")
	// ErrConflict is returned once the optimistic retry budget is spent.
	ErrConflict  = errors.New("concurrent update conflict")
	ErrForbidden = errors.New("not authorized")
)

// StoreError wraps a persistence failure that the core does not recover from.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr passes retryable store errors through untouched so the retry loop
// can see them, and wraps everything else.
func storeErr(op string, err error) error {
	if err == nil || store.IsRetryable(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
