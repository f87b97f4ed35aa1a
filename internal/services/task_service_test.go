package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"github.com/tasktracker/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	svc  *TaskService
	jane *models.User
	john *models.User
	ctx  context.Context
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewTaskService(repository.NewTaskRepository(s.db), nil)
	s.ctx = context.Background()

	s.jane = &models.User{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", PasswordHash: "x"}
	s.john = &models.User{FirstName: "John", LastName: "Roe", Email: "john@x.com", PasswordHash: "x"}
	s.Require().NoError(s.db.Create(s.jane).Error)
	s.Require().NoError(s.db.Create(s.john).Error)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) create(owner *models.User, title string) *models.Task {
	task, err := s.svc.CreateTask(s.ctx, CreateTaskInput{OwnerID: owner.ID, Title: title})
	s.Require().NoError(err)
	return task
}

func (s *TaskServiceTestSuite) TestCreateTask() {
	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	task, err := s.svc.CreateTask(s.ctx, CreateTaskInput{
		OwnerID:     s.jane.ID,
		Title:       "  Buy milk  ",
		Description: "2 litres",
		Deadline:    &deadline,
	})
	s.Require().NoError(err)
	s.NotZero(task.ID)
	s.Equal("Buy milk", task.Title)
	s.Equal("2 litres", task.Description)
	s.Equal(s.jane.ID, task.OwnerID)
	s.Equal(models.TaskStateOngoing, task.State)
	s.Require().NotNil(task.Deadline)
	s.True(deadline.Equal(*task.Deadline))

	tasks, total, err := s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(tasks, 1)
	s.Equal("Buy milk", tasks[0].Title)
}

func (s *TaskServiceTestSuite) TestCreateTask_Validation() {
	_, err := s.svc.CreateTask(s.ctx, CreateTaskInput{OwnerID: s.jane.ID, Title: "   "})
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.svc.CreateTask(s.ctx, CreateTaskInput{OwnerID: s.jane.ID, Title: strings.Repeat("t", 256)})
	s.ErrorIs(err, ErrTitleTooLong)

	var vErr *ValidationError
	s.True(errors.As(err, &vErr))
	s.Equal("title", vErr.Field)

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TaskServiceTestSuite) TestListTasks_OnlyOwnTasksInCreationOrder() {
	first := s.create(s.jane, "first")
	s.create(s.john, "not mine")
	second := s.create(s.jane, "second")

	tasks, total, err := s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(tasks, 2)
	s.Equal(first.ID, tasks[0].ID)
	s.Equal(second.ID, tasks[1].ID)
	for _, task := range tasks {
		s.Equal(s.jane.ID, task.OwnerID)
	}
}

func (s *TaskServiceTestSuite) TestListTasks_Empty() {
	tasks, total, err := s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID})
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)
	s.Zero(total)
}

func (s *TaskServiceTestSuite) TestListTasks_StateFilterAndPagination() {
	a := s.create(s.jane, "a")
	s.create(s.jane, "b")
	s.create(s.jane, "c")
	_, err := s.svc.MarkCompleted(s.ctx, a.ID, s.jane.ID)
	s.Require().NoError(err)

	completed, total, err := s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID, State: "Completed"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(completed, 1)
	s.Equal(a.ID, completed[0].ID)

	page, total, err := s.svc.ListTasks(s.ctx, ListTasksInput{
		OwnerID:    s.jane.ID,
		State:      "ongoing",
		Pagination: utils.NewPaginationParams(2, 1),
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(page, 1)
	s.Equal("c", page[0].Title)

	_, _, err = s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID, State: "done"})
	s.ErrorIs(err, ErrInvalidState)
}

func (s *TaskServiceTestSuite) TestMarkCompleted_Idempotent() {
	task := s.create(s.jane, "Buy milk")

	done, err := s.svc.MarkCompleted(s.ctx, task.ID, s.jane.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateCompleted, done.State)
	s.Equal(task.ID, done.ID)

	again, err := s.svc.MarkCompleted(s.ctx, task.ID, s.jane.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateCompleted, again.State)
}

func (s *TaskServiceTestSuite) TestMarkCompleted_OtherOwnerLooksMissing() {
	task := s.create(s.jane, "Buy milk")

	_, err := s.svc.MarkCompleted(s.ctx, task.ID, s.john.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.svc.MarkCompleted(s.ctx, 9999, s.jane.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	var stored models.Task
	s.Require().NoError(s.db.First(&stored, task.ID).Error)
	s.Equal(models.TaskStateOngoing, stored.State)
}

func (s *TaskServiceTestSuite) TestDeleteTask() {
	task := s.create(s.jane, "Buy milk")

	s.ErrorIs(s.svc.DeleteTask(s.ctx, task.ID, s.john.ID), ErrTaskNotFound)
	s.Require().NoError(s.svc.DeleteTask(s.ctx, task.ID, s.jane.ID))
	s.ErrorIs(s.svc.DeleteTask(s.ctx, task.ID, s.jane.ID), ErrTaskNotFound)

	tasks, _, err := s.svc.ListTasks(s.ctx, ListTasksInput{OwnerID: s.jane.ID})
	s.Require().NoError(err)
	s.Empty(tasks)
}

type failingTaskRepo struct {
	repository.TaskRepository
	err error
}

func (r failingTaskRepo) Create(context.Context, *models.Task) error { return r.err }

func (r failingTaskRepo) ListByOwner(context.Context, repository.TaskFilter) ([]models.Task, int64, error) {
	return nil, 0, r.err
}

func (r failingTaskRepo) MarkCompleted(context.Context, uint64, uint64) (*models.Task, error) {
	return nil, r.err
}

func (r failingTaskRepo) Delete(context.Context, uint64, uint64) error { return r.err }

func TestTaskService_StoreErrorsPropagate(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewTaskService(failingTaskRepo{err: storeErr}, nil)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskInput{OwnerID: 1, Title: "x"})
	require.ErrorIs(t, err, storeErr)

	_, _, err = svc.ListTasks(ctx, ListTasksInput{OwnerID: 1})
	require.ErrorIs(t, err, storeErr)

	_, err = svc.MarkCompleted(ctx, 1, 1)
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(ctx, 1, 1)
	require.ErrorIs(t, err, storeErr)
}
