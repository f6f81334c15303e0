package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	service *TaskService
	ctx     context.Context
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.service = NewTaskService(repository.NewTaskRepository(setupTestDB(s.T())), nil)
	s.ctx = context.Background()
}

func (s *TaskServiceTestSuite) create(title string) *models.Task {
	task, err := s.service.CreateTask(s.ctx, CreateTaskInput{Title: title})
	s.Require().NoError(err)
	return task
}

func boolPtr(b bool) *bool { return &b }
func strPtr(v string) *string { return &v }

func (s *TaskServiceTestSuite) TestCreateTask_Defaults() {
	task := s.create("  Write docs ")

	s.Equal("Write docs", task.Title)
	s.False(task.Status)
	s.False(task.CreatedAt.IsZero())
}

func (s *TaskServiceTestSuite) TestCreateTask_ExplicitFields() {
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	task, err := s.service.CreateTask(s.ctx, CreateTaskInput{
		Title:       "Backfilled",
		Description: "imported",
		Status:      boolPtr(true),
		CreatedAt:   &createdAt,
	})
	s.Require().NoError(err)

	found, err := s.service.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.True(found.Status)
	s.Equal("imported", found.Description)
	s.True(createdAt.Equal(found.CreatedAt))
}

func (s *TaskServiceTestSuite) TestCreateTask_DuplicateTitleIgnoresCase() {
	s.create("Foo")

	_, err := s.service.CreateTask(s.ctx, CreateTaskInput{Title: "foo"})
	s.ErrorIs(err, ErrDuplicateTitle)
}

func (s *TaskServiceTestSuite) TestCreateTask_EmptyTitle() {
	_, err := s.service.CreateTask(s.ctx, CreateTaskInput{Title: "   "})
	s.ErrorIs(err, ErrTitleEmpty)
}

func (s *TaskServiceTestSuite) TestGetTask_NotFound() {
	_, err := s.service.GetTask(s.ctx, 12345)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestUpdateTask() {
	task := s.create("Draft")

	updated, err := s.service.UpdateTask(s.ctx, task.ID, UpdateTaskInput{
		Title:  strPtr("Final"),
		Status: boolPtr(true),
	})
	s.Require().NoError(err)
	s.Equal("Final", updated.Title)
	s.True(updated.Status)
}

func (s *TaskServiceTestSuite) TestUpdateTask_SameTitleDifferentCase() {
	task := s.create("Draft")

	updated, err := s.service.UpdateTask(s.ctx, task.ID, UpdateTaskInput{Title: strPtr("DRAFT")})
	s.Require().NoError(err)
	s.Equal("DRAFT", updated.Title)
}

func (s *TaskServiceTestSuite) TestUpdateTask_Errors() {
	s.create("Taken")
	task := s.create("Mine")

	_, err := s.service.UpdateTask(s.ctx, task.ID, UpdateTaskInput{Title: strPtr("taken")})
	s.ErrorIs(err, ErrDuplicateTitle)

	_, err = s.service.UpdateTask(s.ctx, task.ID, UpdateTaskInput{Title: strPtr("")})
	s.ErrorIs(err, ErrTitleEmpty)

	_, err = s.service.UpdateTask(s.ctx, 999, UpdateTaskInput{Status: boolPtr(true)})
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestUpdateTask_NoChanges() {
	task := s.create("Same")

	updated, err := s.service.UpdateTask(s.ctx, task.ID, UpdateTaskInput{})
	s.Require().NoError(err)
	s.Equal("Same", updated.Title)
}

func (s *TaskServiceTestSuite) TestDeleteTask() {
	task := s.create("Temp")

	msg, err := s.service.DeleteTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("Task with id: %d deleted", task.ID), msg)

	_, err = s.service.DeleteTask(s.ctx, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.service.GetTask(s.ctx, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestListTasks_Pagination() {
	for i := 0; i < 25; i++ {
		s.create(fmt.Sprintf("task %02d", i))
	}

	sizes := []int{10, 10, 5, 0}
	for i, want := range sizes {
		page := i + 1
		result, err := s.service.ListTasks(s.ctx, ListTasksInput{Page: page, Limit: 10})
		s.Require().NoError(err)
		s.Len(result.Tasks, want, "page %d", page)

		p := result.Pagination
		s.Equal(int64(25), p.Total)
		s.Equal(3, p.TotalPages)
		s.Equal(page, p.Page)
		s.Equal(page < 3, p.HasNextPage, "page %d", page)
		s.Equal(page > 1, p.HasPrevPage, "page %d", page)
	}
}

func (s *TaskServiceTestSuite) TestListTasks_Guards() {
	for i := 0; i < 3; i++ {
		s.create(fmt.Sprintf("t%d", i))
	}

	result, err := s.service.ListTasks(s.ctx, ListTasksInput{Page: -2, Limit: 0})
	s.Require().NoError(err)
	s.Equal(1, result.Pagination.Page)
	s.Equal(10, result.Pagination.Limit)
	s.Len(result.Tasks, 3)

	result, err = s.service.ListTasks(s.ctx, ListTasksInput{Limit: 1000})
	s.Require().NoError(err)
	s.Equal(100, result.Pagination.Limit)

	_, err = s.service.ListTasks(s.ctx, ListTasksInput{SortBy: "passwordHash"})
	s.ErrorIs(err, ErrInvalidSortField)

	_, err = s.service.ListTasks(s.ctx, ListTasksInput{SortOrder: "sideways"})
	s.ErrorIs(err, ErrInvalidSortOrder)
}

func (s *TaskServiceTestSuite) TestListTasks_EmptyStore() {
	result, err := s.service.ListTasks(s.ctx, ListTasksInput{Page: 3})
	s.Require().NoError(err)
	s.NotNil(result.Tasks)
	s.Empty(result.Tasks)
	s.Equal(0, result.Pagination.TotalPages)
	s.False(result.Pagination.HasNextPage)
	s.True(result.Pagination.HasPrevPage)
}

func (s *TaskServiceTestSuite) TestListTasks_FilterEcho() {
	a := s.create("A")
	s.create("B")

	_, err := s.service.UpdateTask(s.ctx, a.ID, UpdateTaskInput{Status: boolPtr(true)})
	s.Require().NoError(err)

	result, err := s.service.ListTasks(s.ctx, ListTasksInput{Status: boolPtr(true), Search: "a"})
	s.Require().NoError(err)
	s.Require().Len(result.Tasks, 1)
	s.Equal(a.ID, result.Tasks[0].ID)
	s.Equal("a", result.Filter.Search)
	s.Require().NotNil(result.Filter.Status)
	s.True(*result.Filter.Status)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

// racingTaskRepo simulates a concurrent insert landing between the
// uniqueness pre-check and the insert.
type racingTaskRepo struct {
	repository.TaskRepository
	countCalls int
	listCalls  int
	total      int64
	storeErr   error
}

func (r *racingTaskRepo) ExistsByTitle(context.Context, string, uint64) (bool, error) {
	return false, nil
}

func (r *racingTaskRepo) Create(context.Context, *models.Task) error {
	return r.storeErr
}

func (r *racingTaskRepo) FindByID(_ context.Context, id uint64) (*models.Task, error) {
	return &models.Task{ID: id, Title: "existing"}, nil
}

func (r *racingTaskRepo) Update(context.Context, uint64, repository.TaskChanges) error {
	return r.storeErr
}

func (r *racingTaskRepo) Count(context.Context, repository.TaskFilter) (int64, error) {
	r.countCalls++
	return r.total, nil
}

func (r *racingTaskRepo) List(context.Context, repository.TaskFilter) ([]models.Task, error) {
	r.listCalls++
	return nil, r.storeErr
}

func TestTaskService_StoreUniquenessSignal(t *testing.T) {
	repo := &racingTaskRepo{storeErr: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)}
	service := NewTaskService(repo, nil)
	ctx := context.Background()

	_, err := service.CreateTask(ctx, CreateTaskInput{Title: "Race"})
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	_, err = service.UpdateTask(ctx, 1, UpdateTaskInput{Title: strPtr("Race")})
	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestTaskService_InternalFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := &racingTaskRepo{storeErr: storeErr, total: 5}
	service := NewTaskService(repo, nil)
	ctx := context.Background()

	_, err := service.CreateTask(ctx, CreateTaskInput{Title: "Any"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateTitle)

	_, err = service.ListTasks(ctx, ListTasksInput{})
	assert.ErrorIs(t, err, ErrFailedToListTasks)
}

func TestTaskService_ListSkipsFetchPastLastPage(t *testing.T) {
	repo := &racingTaskRepo{total: 25}
	service := NewTaskService(repo, nil)

	result, err := service.ListTasks(context.Background(), ListTasksInput{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 0, repo.listCalls)
	assert.False(t, result.Pagination.HasNextPage)
	assert.True(t, result.Pagination.HasPrevPage)
}
