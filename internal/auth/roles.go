package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-api/internal/models"
)

// ErrForbidden is matched by every ForbiddenError.
var ErrForbidden = errors.New("forbidden")

// ForbiddenError reports a role mismatch and the roles that would have been accepted.
type ForbiddenError struct {
	Required []models.Role
}

func (e *ForbiddenError) Error() string {
	names := make([]string, len(e.Required))
	for i, r := range e.Required {
		names[i] = string(r)
	}
	return fmt.Sprintf("Needs to be one of the next roles: [%s]", strings.Join(names, ", "))
}

// Is lets errors.Is(err, ErrForbidden) match.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// Authorize decides whether a user holding userRoles may pass a gate that
// requires any of required. An empty requirement admits everyone and the
// super user role admits regardless of the requirement.
func Authorize(userRoles, required []models.Role) error {
	if len(required) == 0 {
		return nil
	}

	for _, have := range userRoles {
		if have == models.RoleSuperUser {
			return nil
		}
	}

	for _, have := range userRoles {
		for _, want := range required {
			if have == want {
				return nil
			}
		}
	}

	return &ForbiddenError{Required: required}
}
