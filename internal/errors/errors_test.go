package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "team"}
		assert.Equal(t, "team not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "team"}
		err2 := &NotFoundError{Entity: "team"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "team"}
		err2 := &NotFoundError{Entity: "task"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrTeamNotFound, ErrTeamNotFound))
		assert.False(t, errors.Is(ErrTeamNotFound, ErrTaskNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrTaskNotFound))
		assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrMemberNotFound)))
		assert.False(t, IsNotFound(ErrCannotRemoveTopRole))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		assert.Equal(t, "team member already exists in this team", ErrAlreadyMember.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "team"}
		assert.Equal(t, "team already exists", err.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "team member", Context: "elsewhere"}
		assert.True(t, errors.Is(err, ErrAlreadyMember))
		assert.False(t, errors.Is(ErrUserExists, ErrAlreadyMember))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrUserExists))
		assert.False(t, IsAlreadyExists(ErrTeamNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "title", Message: "is required"}
		assert.Equal(t, "validation error: title - is required", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		assert.Equal(t, "validation error: no fields to update", ErrNoFieldsProvided.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(NewValidationError("name", "invalid")))
		assert.True(t, IsValidation(ErrInvalidRole))
		assert.False(t, IsValidation(ErrTeamNotFound))
	})
}

func TestAuthErrors(t *testing.T) {
	t.Run("IsAuthentication helper", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrInvalidCredentials))
		assert.False(t, IsAuthentication(ErrNotTeamOwner))
	})

	t.Run("IsAuthorization helper", func(t *testing.T) {
		assert.True(t, IsAuthorization(ErrNotTeamAdmin))
		assert.True(t, IsAuthorization(fmt.Errorf("delete: %w", ErrCannotDeleteTask)))
		assert.False(t, IsAuthorization(ErrInvalidCredentials))
	})
}

func TestBusinessLogicErrors(t *testing.T) {
	assert.EqualError(t, ErrCannotRemoveTopRole, "cannot remove the team owner")
	assert.EqualError(t, ErrInvalidAssignee, "assigned user is not a member of this team")
	assert.False(t, IsValidation(ErrInvalidAssignee))
}
