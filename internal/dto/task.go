package dto

import (
	"time"

	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/services"
	"github.com/yukikurage/task-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Data       []TaskDTO               `json:"data"`
	Pagination utils.Pagination        `json:"pagination"`
	Filter     services.TaskListFilter `json:"filter"`
}

// DeleteTaskResponse confirms a deletion
type DeleteTaskResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(page *services.TaskPage) TaskListResponse {
	items := make([]TaskDTO, len(page.Tasks))
	for i, task := range page.Tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Data:       items,
		Pagination: page.Pagination,
		Filter:     page.Filter,
	}
}
