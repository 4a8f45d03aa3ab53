package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeRepository struct {
	byID    map[string]Agent
	byEmail map[string]Agent
	nextID  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]Agent),
		byEmail: make(map[string]Agent),
		nextID:  1,
	}
}

func (f *fakeRepository) Create(ctx context.Context, params CreateParams) (Agent, error) {
	if _, exists := f.byEmail[strings.ToLower(params.Email)]; exists {
		return Agent{}, ErrDuplicateEmail
	}

	a := Agent{
		ID:          fmt.Sprintf("agent-%d", f.nextID),
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Bio:         params.Bio,
		Specialties: params.Specialties,
		Active:      false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	f.nextID++
	f.byID[a.ID] = a
	f.byEmail[strings.ToLower(a.Email)] = a
	return a, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (Agent, error) {
	a, ok := f.byID[id]
	if !ok {
		return Agent{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeRepository) Directory(ctx context.Context, filter DirectoryFilter) ([]Agent, error) {
	out := make([]Agent, 0, len(f.byID))
	for _, a := range f.byID {
		if !a.Active {
			continue
		}
		if filter.Term != "" &&
			!strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Term)) &&
			!strings.Contains(strings.ToLower(a.Bio), strings.ToLower(filter.Term)) {
			continue
		}
		if filter.Specialty != "" && !contains(a.Specialties, filter.Specialty) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepository) ListPending(ctx context.Context) ([]Agent, error) {
	out := make([]Agent, 0)
	for _, a := range f.byID {
		if !a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepository) SetActive(ctx context.Context, id string, active bool) (Agent, error) {
	a, ok := f.byID[id]
	if !ok {
		return Agent{}, ErrNotFound
	}
	a.Active = active
	f.byID[id] = a
	f.byEmail[strings.ToLower(a.Email)] = a
	return a, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, strings.ToLower(a.Email))
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestRegister_CreatesInactiveProfile(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	a, err := svc.Register(context.Background(), CreateParams{
		Name:        "Sarah Mitchell",
		Email:       "sarah@example.com",
		Specialties: []string{"Luxury Homes"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Active {
		t.Fatal("self-registered agents must start inactive")
	}

	dir, err := svc.Directory(context.Background(), DirectoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir) != 0 {
		t.Fatal("inactive agents must not appear in the directory")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	params := CreateParams{Name: "Sarah", Email: "sarah@example.com"}
	if _, err := svc.Register(context.Background(), params); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), params); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestApprove_MakesAgentVisible(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	a, err := svc.Register(context.Background(), CreateParams{Name: "Sarah", Email: "sarah@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	approved, err := svc.Approve(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.Active {
		t.Fatal("approval must activate the profile")
	}

	dir, err := svc.Directory(context.Background(), DirectoryFilter{})
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if len(dir) != 1 {
		t.Fatalf("expected 1 visible agent, got %d", len(dir))
	}
}

func TestReject_RemovesPendingOnly(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	pending, err := svc.Register(context.Background(), CreateParams{Name: "Pat", Email: "pat@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Reject(context.Background(), pending.ID); err != nil {
		t.Fatalf("reject pending: %v", err)
	}
	if _, err := svc.Get(context.Background(), pending.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}

	active, err := svc.Register(context.Background(), CreateParams{Name: "Alex", Email: "alex@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Approve(context.Background(), active.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Reject(context.Background(), active.ID); err == nil {
		t.Fatal("rejecting an active agent must fail")
	}
}

func TestDirectory_TermAndSpecialty(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	seed := []CreateParams{
		{Name: "Sarah Mitchell", Email: "s@example.com", Bio: "Luxury specialist", Specialties: []string{"Luxury Homes"}},
		{Name: "Michael Chen", Email: "m@example.com", Bio: "Commercial expert", Specialties: []string{"Commercial Properties"}},
	}
	for _, p := range seed {
		a, err := svc.Register(context.Background(), p)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.Approve(context.Background(), a.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	dir, err := svc.Directory(context.Background(), DirectoryFilter{Term: "luxury"})
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if len(dir) != 1 || dir[0].Name != "Sarah Mitchell" {
		t.Fatalf("term filter failed: %+v", dir)
	}

	dir, err = svc.Directory(context.Background(), DirectoryFilter{Specialty: "Commercial Properties"})
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if len(dir) != 1 || dir[0].Name != "Michael Chen" {
		t.Fatalf("specialty filter failed: %+v", dir)
	}
}
