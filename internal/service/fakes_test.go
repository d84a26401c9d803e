package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================
//
// In-memory fakes (not a mock framework) keep these tests dependency-free
// and easy to read — you can see exactly what the fake does. Each fake
// mirrors the sqlite implementation's observable behaviour: assigns IDs on
// Create, returns NotFound for missing rows, stores copies.

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
	existsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("email is already in use")
		}
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeProjectRepo struct {
	projects map[string]*model.Project
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*model.Project), nextID: 1}
}

func (f *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	project.ID = fmt.Sprintf("project-%d", f.nextID)
	f.nextID++
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperror.NotFound("project", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProjectRepo) ListByUser(_ context.Context, userID string) ([]model.Project, error) {
	projects := []model.Project{}
	for _, p := range f.projects {
		if p.UserID == userID {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *model.Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return apperror.NotFound("project", project.ID)
	}
	project.UpdatedAt = time.Now()
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return apperror.NotFound("project", id)
	}
	delete(f.projects, id)
	return nil
}

var _ repository.ProjectRepository = (*fakeProjectRepo)(nil)

type fakeTaskRepo struct {
	tasks  map[string]*model.Task
	order  []string // IDs in insertion order, mirroring ORDER BY id
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task), nextID: 1}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *model.Task) error {
	task.ID = fmt.Sprintf("task-%d", f.nextID)
	f.nextID++
	copied := *task
	f.tasks[task.ID] = &copied
	f.order = append(f.order, task.ID)
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, apperror.NotFound("task", id)
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]model.Task, error) {
	tasks := []model.Task{}
	for _, id := range f.order {
		if t, ok := f.tasks[id]; ok && t.ProjectID == projectID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *model.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return apperror.NotFound("task", task.ID)
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return apperror.NotFound("task", id)
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) CountByProject(_ context.Context, projectID string) (repository.TaskCounts, error) {
	var counts repository.TaskCounts
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			counts.Total++
			if t.IsCompleted {
				counts.Completed++
			}
		}
	}
	return counts, nil
}

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuthService returns an AuthService wired with fake storage and
// real token/password services (bcrypt at the cheapest cost so tests
// stay fast).
func newTestAuthService(t *testing.T, users *fakeUserRepo) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return NewAuthService(users, tokens, auth.NewPasswordServiceForTest(4), testLogger())
}
