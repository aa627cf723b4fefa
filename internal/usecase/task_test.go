package usecase

import (
	"context"
	"errors"
	"testing"

	"project-service/internal/domain"

	"github.com/google/uuid"
)

func TestCreateTaskDefaultsAndAssigneeSnapshot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "acme")
	bob := e.register(t, "bob", "acme")
	project := e.createProject(t, alice, "P")

	task, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "write", AssigneeID: &bob.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != domain.StatusTodo {
		t.Fatalf("expected default status todo, got %s", task.Status)
	}
	if task.Assignee == nil || task.Assignee.Username != "bob" {
		t.Fatalf("expected bob as assignee, got %+v", task.Assignee)
	}

	if _, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "x", Status: "blocked"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unknown status rejected, got %v", err)
	}
}

func TestAssigneeMustShareTenant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "acme")
	outsider := e.register(t, "outsider", "globex")
	project := e.createProject(t, alice, "P")

	if _, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "t", AssigneeID: &outsider.ID}); !errors.Is(err, domain.ErrInvalidAssignee) {
		t.Fatalf("expected invalid assignee on create, got %v", err)
	}

	task, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "t"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	patch := domain.TaskPatch{AssigneeID: domain.Some(outsider.ID)}
	if _, err := e.tasks.UpdateTask(ctx, alice, project.ID, task.ID, patch); !errors.Is(err, domain.ErrInvalidAssignee) {
		t.Fatalf("expected invalid assignee on update, got %v", err)
	}
	unknown := domain.TaskPatch{AssigneeID: domain.Some(uuid.New())}
	if _, err := e.tasks.UpdateTask(ctx, alice, project.ID, task.ID, unknown); !errors.Is(err, domain.ErrInvalidAssignee) {
		t.Fatalf("expected invalid assignee for unknown user, got %v", err)
	}
}

func TestUpdateTaskPartialAndUnassign(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "acme")
	project := e.createProject(t, alice, "P")
	desc := "details"

	task, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "t", Description: &desc, AssigneeID: &alice.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	same, err := e.tasks.UpdateTask(ctx, alice, project.ID, task.ID, domain.TaskPatch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.Title != "t" || same.Description == nil || same.AssigneeID == nil {
		t.Fatalf("expected empty patch to be a no-op, got %+v", same)
	}

	updated, err := e.tasks.UpdateTask(ctx, alice, project.ID, task.ID, domain.TaskPatch{
		Status:     domain.Some(domain.StatusInProgress),
		AssigneeID: domain.Null[uuid.UUID](),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusInProgress || updated.Title != "t" || updated.Description == nil {
		t.Fatalf("expected only status to change, got %+v", updated)
	}
	if updated.AssigneeID != nil || updated.Assignee != nil {
		t.Fatalf("expected task unassigned, got %+v", updated)
	}

	fetched, err := e.tasks.GetTask(ctx, alice, project.ID, task.ID)
	if err != nil || fetched.AssigneeID != nil {
		t.Fatalf("expected persisted unassignment, got %+v (%v)", fetched, err)
	}
}

func TestTasksAreScopedToProjectAndTenant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "acme")
	mallory := e.register(t, "mallory", "evil")
	project := e.createProject(t, alice, "P")
	other := e.createProject(t, alice, "Q")

	task, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: "t"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := e.tasks.ListTasks(ctx, mallory, project.ID, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected other tenant to miss project, got %v", err)
	}
	if _, err := e.tasks.CreateTask(ctx, mallory, project.ID, CreateTaskInput{Title: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected other tenant create to miss project, got %v", err)
	}
	if _, err := e.tasks.GetTask(ctx, alice, other.ID, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected task lookup under another project to miss, got %v", err)
	}

	deleted, err := e.tasks.DeleteTask(ctx, alice, other.ID, task.ID)
	if err != nil || deleted {
		t.Fatalf("expected delete under another project to report false, got %v (%v)", deleted, err)
	}
	deleted, err = e.tasks.DeleteTask(ctx, alice, project.ID, task.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete, got %v (%v)", deleted, err)
	}
}

func TestListTasksFiltersByStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "acme")
	project := e.createProject(t, alice, "P")

	for _, status := range []string{domain.StatusTodo, domain.StatusDone, domain.StatusDone} {
		if _, err := e.tasks.CreateTask(ctx, alice, project.ID, CreateTaskInput{Title: status, Status: status}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	all, err := e.tasks.ListTasks(ctx, alice, project.ID, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d (%v)", len(all), err)
	}
	done, err := e.tasks.ListTasks(ctx, alice, project.ID, domain.StatusDone)
	if err != nil || len(done) != 2 {
		t.Fatalf("expected 2 done tasks, got %d (%v)", len(done), err)
	}
	if _, err := e.tasks.ListTasks(ctx, alice, project.ID, "nope"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unknown status filter rejected, got %v", err)
	}
}
