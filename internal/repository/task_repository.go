package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

const taskColumns = `t.task_id, t.creator_id, t.creator_role, t.title, t.description,
	t.status, t.priority, t.assigned_to, t.created_at`

const taskDetailColumns = taskColumns + `,
	COALESCE(a.name, c.name, '') AS creator_name, w.worker_name AS assignee_name`

const taskDetailJoins = `FROM task t
	LEFT JOIN admin a ON t.creator_role = 'ADMIN' AND t.creator_id = a.admin_id
	LEFT JOIN customer c ON t.creator_role = 'CUSTOMER' AND t.creator_id = c.customer_id
	LEFT JOIN worker w ON t.assigned_to = w.worker_id`

// TaskRepository manages persistence for tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs a TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO task (task_id, creator_id, creator_role, title, description,
			status, priority, assigned_to, created_at)
		VALUES (:task_id, :creator_id, :creator_role, :title, :description,
			:status, :priority, :assigned_to, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID fetches one task with creator and assignee names.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.TaskDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.task_id = $1`, taskDetailColumns, taskDetailJoins)
	var detail models.TaskDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListForCreator returns tasks created by the given account, newest first.
func (r *TaskRepository) ListForCreator(ctx context.Context, creatorID string) ([]models.TaskDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.creator_id = $1 ORDER BY t.created_at DESC`,
		taskDetailColumns, taskDetailJoins)
	var tasks []models.TaskDetail
	if err := r.db.SelectContext(ctx, &tasks, query, creatorID); err != nil {
		return nil, fmt.Errorf("list creator tasks: %w", err)
	}
	return tasks, nil
}

// ListForAssignee returns tasks assigned to the worker, newest first.
func (r *TaskRepository) ListForAssignee(ctx context.Context, workerID string) ([]models.TaskDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.assigned_to = $1 ORDER BY t.created_at DESC`,
		taskDetailColumns, taskDetailJoins)
	var tasks []models.TaskDetail
	if err := r.db.SelectContext(ctx, &tasks, query, workerID); err != nil {
		return nil, fmt.Errorf("list assignee tasks: %w", err)
	}
	return tasks, nil
}

// List returns tasks matching the filter along with the total count.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.TaskDetail, int, error) {
	base := taskDetailJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", len(args)+1))
		args = append(args, *filter.Priority)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d",
		taskDetailColumns, base, size, offset)
	var tasks []models.TaskDetail
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}

// Update rewrites every editable field of a task. Returns sql.ErrNoRows when
// the task does not exist.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	const query = `UPDATE task
		SET title = $1, description = $2, status = $3, priority = $4, assigned_to = $5
		WHERE task_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.AssignedTo, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusForAssignee writes a new status only when the task is assigned
// to the given worker. Returns sql.ErrNoRows otherwise.
func (r *TaskRepository) UpdateStatusForAssignee(ctx context.Context, taskID, workerID string, status models.TaskStatus) error {
	const query = `UPDATE task SET status = $1 WHERE task_id = $2 AND assigned_to = $3`
	result, err := r.db.ExecContext(ctx, query, status, taskID, workerID)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a task. Returns sql.ErrNoRows when the task does not exist.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	const query = `DELETE FROM task WHERE task_id = $1`
	result, err := r.db.ExecContext(ctx, query, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteForCreator removes a task only when the given account created it.
// Returns sql.ErrNoRows otherwise.
func (r *TaskRepository) DeleteForCreator(ctx context.Context, taskID, creatorID string) error {
	const query = `DELETE FROM task WHERE task_id = $1 AND creator_id = $2`
	result, err := r.db.ExecContext(ctx, query, taskID, creatorID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
