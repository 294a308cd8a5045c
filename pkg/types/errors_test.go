package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsMatchClass(t *testing.T) {
	for _, err := range []error{
		ErrInvalidParent,
		ErrParentNotFound,
		ErrParentNotContainer,
		ErrUnknownTagIDs,
		ErrEmptyLabel,
		ErrEmptyName,
		ErrInvalidContainerFlag,
		ErrInvalidID,
	} {
		t.Run(err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("creating node: %w", err)
			assert.ErrorIs(t, wrapped, ErrValidation)
			assert.ErrorIs(t, wrapped, err)
			assert.NotErrorIs(t, wrapped, ErrNotFound)
			assert.NotErrorIs(t, wrapped, ErrConflict)
			assert.NotErrorIs(t, wrapped, ErrStore)
		})
	}
}

func TestValidationErrorsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrParentNotFound, ErrParentNotContainer)
	assert.NotErrorIs(t, ErrEmptyLabel, ErrEmptyName)
}

func TestUnknownTagIDsError(t *testing.T) {
	err := fmt.Errorf("updating node n1: %w", &UnknownTagIDsError{IDs: []string{"a", "b"}})

	assert.ErrorIs(t, err, ErrUnknownTagIDs)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrParentNotFound)
	assert.EqualError(t, err, "updating node n1: unknown tag ids: [a, b]")

	var unknown *UnknownTagIDsError
	if assert.True(t, errors.As(err, &unknown)) {
		assert.Equal(t, []string{"a", "b"}, unknown.IDs)
	}
}
