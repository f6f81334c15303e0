package repository

import (
	"context"

	"github.com/yukikurage/task-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ExistsByTitle reports whether another task already uses title, compared
	// case-insensitively. excludeID skips one task (0 skips none).
	ExistsByTitle(ctx context.Context, title string, excludeID uint64) (bool, error)

	// List retrieves one page of tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Count returns the number of tasks matching the filter, ignoring paging
	Count(ctx context.Context, filter TaskFilter) (int64, error)

	// Update applies a partial change set to a task
	Update(ctx context.Context, id uint64, changes TaskChanges) error

	// Delete removes a task and reports whether it existed
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TaskFilter holds filtering, ordering and paging options for listing tasks
type TaskFilter struct {
	Search    string
	Status    *bool
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// TaskChanges holds the fields of a partial task update. Nil means unchanged.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *bool
}

// IsEmpty reports whether no field is set.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns all users ordered by ID
	List(ctx context.Context) ([]models.User, error)
}
