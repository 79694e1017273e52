package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"tasklist-api/internal/apperr"
	"tasklist-api/internal/models"
	"tasklist-api/internal/repository"
	"tasklist-api/pkg/logger"
)

const maxTitleLength = 255

type TaskStore interface {
	ListByAuthor(ctx context.Context, authorID int) ([]models.Task, error)
	Create(ctx context.Context, authorID int, title string) (models.Task, error)
	Get(ctx context.Context, authorID, id int) (models.Task, error)
	Update(ctx context.Context, authorID, id int, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, authorID, id int) error
}

// TaskCache is an optional per-user cache of List results.
type TaskCache interface {
	Get(ctx context.Context, userID int) ([]models.Task, bool, error)
	Set(ctx context.Context, userID int, tasks []models.Task) error
	Invalidate(ctx context.Context, userID int) error
}

const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

type TaskEvent struct {
	Type string
	Task models.Task
}

// EventPublisher fans task events out to the owner's live connections.
type EventPublisher interface {
	Publish(userID int, event TaskEvent)
}

var errTaskNotFound = apperr.New(apperr.NotFoundOrUnauthorized, "task not found")

type TaskService struct {
	tasks  TaskStore
	cache  TaskCache
	events EventPublisher
	log    *logger.Loggers
}

// NewTaskService builds the service. cache and events may be nil.
func NewTaskService(tasks TaskStore, cache TaskCache, events EventPublisher, log *logger.Loggers) *TaskService {
	return &TaskService{tasks: tasks, cache: cache, events: events, log: log}
}

func (s *TaskService) List(ctx context.Context, userID int) ([]models.Task, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Error.Error("Error reading task cache", zap.Int("user_id", userID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	tasks, err := s.tasks.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, apperr.InternalErr(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, tasks); err != nil {
			s.log.Error.Error("Error caching tasks", zap.Int("user_id", userID), zap.Error(err))
		}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID int) (models.Task, error) {
	if !validTaskID(taskID) {
		return models.Task{}, apperr.Invalid("invalid task id")
	}
	task, err := s.tasks.Get(ctx, userID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Task{}, errTaskNotFound
	}
	if err != nil {
		return models.Task{}, apperr.InternalErr(err)
	}
	return task, nil
}

// Create stores a new open task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int, title string) (models.Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return models.Task{}, err
	}

	task, err := s.tasks.Create(ctx, userID, title)
	if err != nil {
		return models.Task{}, apperr.InternalErr(err)
	}

	s.changed(ctx, userID, TaskCreated, task)
	s.log.Audit.Info("Task created successfully", zap.Int("task_id", task.ID), zap.Int("user_id", userID))
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID int, patch models.TaskPatch) (models.Task, error) {
	if !validTaskID(taskID) {
		return models.Task{}, apperr.Invalid("invalid task id")
	}
	if patch.Empty() {
		return models.Task{}, apperr.Invalid("at least one of title or completed is required")
	}
	if patch.Title != nil {
		title, err := cleanTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		patch.Title = &title
	}

	task, err := s.tasks.Update(ctx, userID, taskID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Task{}, errTaskNotFound
	}
	if err != nil {
		return models.Task{}, apperr.InternalErr(err)
	}

	s.changed(ctx, userID, TaskUpdated, task)
	s.log.Audit.Info("Task updated", zap.Int("task_id", task.ID), zap.Int("user_id", userID))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int) error {
	if !validTaskID(taskID) {
		return apperr.Invalid("invalid task id")
	}
	err := s.tasks.Delete(ctx, userID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return errTaskNotFound
	}
	if err != nil {
		return apperr.InternalErr(err)
	}

	s.changed(ctx, userID, TaskDeleted, models.Task{ID: taskID, AuthorID: userID})
	s.log.Audit.Info("Task deleted", zap.Int("task_id", taskID), zap.Int("user_id", userID))
	return nil
}

// changed drops the cached list and notifies live connections.
func (s *TaskService) changed(ctx context.Context, userID int, eventType string, task models.Task) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Error.Error("Error invalidating task cache", zap.Int("user_id", userID), zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.Publish(userID, TaskEvent{Type: eventType, Task: task})
	}
}

// validTaskID reports whether id fits the INT4 id column.
func validTaskID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", apperr.Invalid("title must be at most 255 characters")
	}
	return title, nil
}
