package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found.
// It is also returned when the actor has no access to the entity, so the
// response never reveals whether the entity exists.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents a conflict with an existing entity
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in this team"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when the actor is a confirmed team member
// but lacks the privilege for the operation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrUserNotFound   = &NotFoundError{Entity: "user"}
	ErrTeamNotFound   = &NotFoundError{Entity: "team"}
	ErrTaskNotFound   = &NotFoundError{Entity: "task"}
	ErrMemberNotFound = &NotFoundError{Entity: "team member"}
)

// Conflict Errors
var (
	ErrUserExists    = &AlreadyExistsError{Entity: "user", Context: "with this username or email"}
	ErrAlreadyMember = &AlreadyExistsError{Entity: "team member", Context: "in this team"}
)

// Validation Errors
var (
	ErrInvalidRole      = &ValidationError{Field: "role", Message: "role must be admin or member"}
	ErrNoFieldsProvided = &ValidationError{Message: "no fields to update"}
)

// Business Logic Errors
var (
	ErrCannotRemoveTopRole = errors.New("cannot remove the team owner")
	ErrInvalidAssignee     = errors.New("assigned user is not a member of this team")
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid username or password"}
	ErrNotAuthenticated   = &AuthenticationError{Message: "authentication required"}
	ErrSessionRevoked     = &AuthenticationError{Message: "session has been revoked"}
)

// Authorization Errors
var (
	ErrNotTeamAdmin     = &AuthorizationError{Message: "you must be a team owner or admin to perform this action"}
	ErrNotTeamOwner     = &AuthorizationError{Message: "only the team owner can perform this action"}
	ErrCannotDeleteTask = &AuthorizationError{Message: "only the task creator or a team owner or admin can delete this task"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}
