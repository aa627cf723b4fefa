package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ProjectPatch is a partial project update; absent fields keep their current value
type ProjectPatch struct {
	Name        Optional[string] `json:"name" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
}

// Validate rejects values that can never be applied
func (p ProjectPatch) Validate() error {
	if p.Name.IsNull() {
		return fmt.Errorf("%w: name cannot be null", ErrValidation)
	}
	if name, ok := p.Name.Get(); ok {
		return CheckProjectName(name)
	}
	return nil
}

// Apply merges the provided fields onto project
func (p ProjectPatch) Apply(project *Project) {
	if name, ok := p.Name.Get(); ok {
		project.Name = name
	}
	if p.Description.IsSet() {
		project.Description = p.Description.Ptr()
	}
}

// CheckProjectName rejects blank names and names longer than the column
func CheckProjectName(name string) error {
	return checkText("name", name, MaxProjectNameLength)
}

// CheckTaskTitle rejects blank titles and titles longer than the column
func CheckTaskTitle(title string) error {
	return checkText("title", title, MaxTaskTitleLength)
}

func checkText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, max)
	}
	return nil
}

// TaskPatch is a partial task update; absent fields keep their current value and
// an explicit null clears the nullable ones
type TaskPatch struct {
	Title       Optional[string]    `json:"title" swaggertype:"string"`
	Description Optional[string]    `json:"description" swaggertype:"string"`
	Status      Optional[string]    `json:"status" swaggertype:"string"`
	AssigneeID  Optional[uuid.UUID] `json:"assignee_id" swaggertype:"string" format:"uuid"`
	DueDate     Optional[time.Time] `json:"due_date" swaggertype:"string" format:"date-time"`
}

// IsEmpty reports whether no field was provided
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.IsSet() && !p.Description.IsSet() && !p.Status.IsSet() &&
		!p.AssigneeID.IsSet() && !p.DueDate.IsSet()
}

// Validate rejects nulls on required fields and unknown statuses
func (p TaskPatch) Validate() error {
	if p.Title.IsNull() {
		return fmt.Errorf("%w: title cannot be null", ErrValidation)
	}
	if title, ok := p.Title.Get(); ok {
		if err := CheckTaskTitle(title); err != nil {
			return err
		}
	}
	if p.Status.IsNull() {
		return fmt.Errorf("%w: status cannot be null", ErrValidation)
	}
	if status, ok := p.Status.Get(); ok && !ValidTaskStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return nil
}

// Apply merges the provided fields onto task. Unassigning also drops the snapshot.
func (p TaskPatch) Apply(task *Task) {
	if title, ok := p.Title.Get(); ok {
		task.Title = title
	}
	if p.Description.IsSet() {
		task.Description = p.Description.Ptr()
	}
	if status, ok := p.Status.Get(); ok {
		task.Status = status
	}
	if p.AssigneeID.IsSet() {
		task.AssigneeID = p.AssigneeID.Ptr()
		if task.AssigneeID == nil || task.Assignee == nil || task.Assignee.ID != *task.AssigneeID {
			task.Assignee = nil
		}
	}
	if p.DueDate.IsSet() {
		task.DueDate = p.DueDate.Ptr()
	}
}
