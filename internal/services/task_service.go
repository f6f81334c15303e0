package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-api/internal/constants"
	"github.com/yukikurage/task-api/internal/logger"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrDuplicateTitle    = errors.New("a task with this title already exists")
	ErrTitleEmpty        = errors.New("title cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidSortOrder  = errors.New("sort order must be asc or desc")
	ErrFailedToListTasks = errors.New("failed to list tasks")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	audit    *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		audit:    logger.OrNop(log).Named(logger.NameAudit),
	}
}

// ListTasksInput represents filters, ordering and paging for listing tasks
type ListTasksInput struct {
	Page      int
	Limit     int
	Search    string
	Status    *bool
	SortBy    string
	SortOrder string
}

// TaskListFilter echoes the applied filter back to the caller
type TaskListFilter struct {
	Search string `json:"search"`
	Status *bool  `json:"status,omitempty"`
}

// TaskPage is one page of a task listing
type TaskPage struct {
	Tasks      []models.Task
	Pagination utils.Pagination
	Filter     TaskListFilter
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      *bool
	CreatedAt   *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *bool
}

// ListTasks returns one page of tasks. The count runs first; a page past the
// end of a non-empty result is answered without fetching.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = constants.DefaultSortBy
	}
	if !repository.IsSortField(sortBy) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortField, sortBy)
	}

	sortOrder := strings.ToLower(input.SortOrder)
	if sortOrder == "" {
		sortOrder = constants.DefaultSortOrder
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return nil, ErrInvalidSortOrder
	}

	params := utils.NormalizePagination(input.Page, input.Limit)
	filter := repository.TaskFilter{
		Search:    input.Search,
		Status:    input.Status,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Offset:    params.Offset,
		Limit:     params.Limit,
	}

	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToListTasks, err)
	}

	page := &TaskPage{
		Tasks:      []models.Task{},
		Pagination: utils.NewPagination(total, params),
		Filter:     TaskListFilter{Search: input.Search, Status: input.Status},
	}
	if total == 0 || page.Pagination.BeyondLastPage() {
		return page, nil
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToListTasks, err)
	}
	page.Tasks = tasks

	return page, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task. Title uniqueness is checked up front and
// enforced again by the store's unique index, which catches concurrent inserts.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleEmpty
	}

	exists, err := s.taskRepo.ExistsByTitle(ctx, title, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}
	if exists {
		return nil, ErrDuplicateTitle
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.CreatedAt != nil {
		task.CreatedAt = *input.CreatedAt
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.audit.Info("Task created", zap.Uint64("task_id", task.ID))
	return task, nil
}

// UpdateTask applies a partial update and returns the stored result
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	changes := repository.TaskChanges{
		Description: input.Description,
		Status:      input.Status,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}

		exists, err := s.taskRepo.ExistsByTitle(ctx, title, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to check title: %w", err)
		}
		if exists {
			return nil, ErrDuplicateTitle
		}
		changes.Title = &title
	}

	if !changes.IsEmpty() {
		if err := s.taskRepo.Update(ctx, taskID, changes); err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return nil, ErrDuplicateTitle
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrTaskNotFound
			default:
				return nil, fmt.Errorf("failed to update task: %w", err)
			}
		}
		s.audit.Info("Task updated", zap.Uint64("task_id", taskID))
	}

	return s.GetTask(ctx, taskID)
}

// DeleteTask removes a task and returns a confirmation message
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) (string, error) {
	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return "", ErrTaskNotFound
	}

	s.audit.Info("Task deleted", zap.Uint64("task_id", taskID))
	return fmt.Sprintf("Task with id: %d deleted", taskID), nil
}
