package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type taskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.TaskDetail, error)
	ListForCreator(ctx context.Context, creatorID string) ([]models.TaskDetail, error)
	ListForAssignee(ctx context.Context, workerID string) ([]models.TaskDetail, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.TaskDetail, int, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatusForAssignee(ctx context.Context, taskID, workerID string, status models.TaskStatus) error
	Delete(ctx context.Context, taskID string) error
	DeleteForCreator(ctx context.Context, taskID, creatorID string) error
}

type assigneeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Worker, error)
}

// CreateTaskRequest opens a new task, optionally assigned to a worker.
type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Status      models.TaskStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    models.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string             `json:"assigned_to" validate:"omitempty,uuid4"`
}

// UpdateTaskRequest rewrites every editable field of a task.
type UpdateTaskRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Status      models.TaskStatus   `json:"status" validate:"required,oneof=pending in_progress completed"`
	Priority    models.TaskPriority `json:"priority" validate:"required,oneof=low medium high"`
	AssignedTo  *string             `json:"assigned_to" validate:"omitempty,uuid4"`
}

// UpdateTaskStatusRequest is a worker's progress report on an assigned task.
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// TaskListPage is an admin task listing with pagination metadata.
type TaskListPage struct {
	Tasks      []models.TaskDetail `json:"tasks"`
	Pagination models.Pagination   `json:"pagination"`
}

// TaskService handles the task lifecycle. Admins and customers raise and edit
// tasks; workers only report status on tasks assigned to them.
type TaskService struct {
	repo      taskRepository
	workers   assigneeFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(repo taskRepository, workers assigneeFinder, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{repo: repo, workers: workers, validator: validate, logger: logger}
}

// Create records a new task for the calling admin or customer. Workers cannot
// create tasks. Status defaults to pending and priority to medium.
func (s *TaskService) Create(ctx context.Context, identity models.Identity, req CreateTaskRequest) (*models.Task, error) {
	if identity.Role == models.RoleWorker {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	if req.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		CreatorID:   identity.UserID,
		CreatorRole: identity.Role,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("creator_id", identity.UserID),
		zap.String("creator_role", string(identity.Role)))
	return task, nil
}

// Get fetches one task. Customers see their own, workers their assigned ones,
// admins everything.
func (s *TaskService) Get(ctx context.Context, identity models.Identity, taskID string) (*models.TaskDetail, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	if !canViewTask(identity, &task.Task) {
		return nil, appErrors.ErrForbidden
	}
	return task, nil
}

// ListMine returns the caller's tasks: created ones for a customer, assigned
// ones for a worker.
func (s *TaskService) ListMine(ctx context.Context, identity models.Identity) ([]models.TaskDetail, error) {
	var (
		tasks []models.TaskDetail
		err   error
	)
	switch identity.Role {
	case models.RoleCustomer:
		tasks, err = s.repo.ListForCreator(ctx, identity.UserID)
	case models.RoleWorker:
		tasks, err = s.repo.ListForAssignee(ctx, identity.UserID)
	default:
		return nil, appErrors.ErrForbidden
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	return tasks, nil
}

// ListAll returns the admin task listing with optional status and priority
// filters.
func (s *TaskService) ListAll(ctx context.Context, identity models.Identity, filter models.TaskFilter) (*TaskListPage, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown task status")
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown task priority")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	return &TaskListPage{
		Tasks: tasks,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
		},
	}, nil
}

// Update rewrites a task. Admins edit any task, customers only tasks they
// created. Workers use UpdateStatus instead.
func (s *TaskService) Update(ctx context.Context, identity models.Identity, taskID string, req UpdateTaskRequest) (*models.Task, error) {
	if identity.Role == models.RoleWorker {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	detail, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	if identity.Role == models.RoleCustomer && detail.CreatorID != identity.UserID {
		return nil, appErrors.ErrForbidden
	}
	if req.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := detail.Task
	task.Title = req.Title
	task.Description = req.Description
	task.Status = req.Status
	task.Priority = req.Priority
	task.AssignedTo = req.AssignedTo
	if err := s.repo.Update(ctx, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}

	s.logger.Info("task updated",
		zap.String("task_id", taskID),
		zap.String("editor_id", identity.UserID),
		zap.String("editor_role", string(identity.Role)))
	return &task, nil
}

// UpdateStatus applies a worker's status change to a task assigned to them.
// The write is guarded on the assignment so a reassigned task is rejected.
func (s *TaskService) UpdateStatus(ctx context.Context, identity models.Identity, taskID string, req UpdateTaskStatusRequest) (*models.TaskDetail, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	if err := s.repo.UpdateStatusForAssignee(ctx, taskID, identity.UserID, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found or not assigned to you")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task status")
	}

	s.logger.Info("task status updated",
		zap.String("task_id", taskID),
		zap.String("worker_id", identity.UserID),
		zap.String("status", string(req.Status)))

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// Delete removes a task. Admins delete any task, customers only tasks they
// created. Workers cannot delete tasks.
func (s *TaskService) Delete(ctx context.Context, identity models.Identity, taskID string) error {
	var err error
	switch identity.Role {
	case models.RoleAdmin:
		err = s.repo.Delete(ctx, taskID)
	case models.RoleCustomer:
		err = s.repo.DeleteForCreator(ctx, taskID, identity.UserID)
	default:
		return appErrors.ErrForbidden
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}

	s.logger.Info("task deleted",
		zap.String("task_id", taskID),
		zap.String("deleter_id", identity.UserID),
		zap.String("deleter_role", string(identity.Role)))
	return nil
}

func (s *TaskService) checkAssignee(ctx context.Context, workerID string) error {
	if _, err := s.workers.FindByID(ctx, workerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown worker")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check worker")
	}
	return nil
}

func canViewTask(identity models.Identity, task *models.Task) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return task.CreatorID == identity.UserID
	case models.RoleWorker:
		return task.AssignedTo != nil && *task.AssignedTo == identity.UserID
	}
	return false
}
