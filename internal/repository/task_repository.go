package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/task-api/internal/database"
	"github.com/yukikurage/task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps the public sort field names to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title_key",
	"status":    "status",
}

// IsSortField reports whether field can be used as TaskFilter.SortBy.
func IsSortField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task. A clashing title surfaces as gorm.ErrDuplicatedKey
// when the connection was opened with TranslateError.
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ExistsByTitle reports whether a task other than excludeID uses title
func (r *GormTaskRepository) ExistsByTitle(ctx context.Context, title string, excludeID uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("title_key = ?", models.TitleKey(title))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves one page of tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	desc := !strings.EqualFold(filter.SortOrder, "asc")

	err := r.db.WithContext(ctx).
		Scopes(matching(filter)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Scopes(database.Paginate(filter.Offset, filter.Limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns the number of tasks matching the filter, ignoring paging
func (r *GormTaskRepository) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(matching(filter)).
		Count(&total).Error
	return total, err
}

// Update applies a partial change set. A missing task yields gorm.ErrRecordNotFound.
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, changes TaskChanges) error {
	values := map[string]interface{}{}
	if changes.Title != nil {
		values["title"] = *changes.Title
		values["title_key"] = models.TitleKey(*changes.Title)
	}
	if changes.Description != nil {
		values["description"] = *changes.Description
	}
	if changes.Status != nil {
		values["status"] = *changes.Status
	}

	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a task and reports whether it existed
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// matching narrows a query to the filter's search and status clauses.
func matching(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
			db = db.Where(
				"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')",
				pattern, pattern,
			)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes a user-supplied term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
