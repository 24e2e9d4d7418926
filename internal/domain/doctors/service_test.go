package doctors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repository --

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
	writes  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	m.writes++
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.doctors[id]; !ok {
		return ErrNotFound
	}
	m.writes++
	delete(m.doctors, id)
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService()
	d := &Doctor{Name: " Dr. Lee ", Email: "LEE@clinic.test", Specialty: "Cleaning", Image: "https://img/lee.png"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.doctors[d.ID]
	if stored.Name != "Dr. Lee" || stored.Email != "lee@clinic.test" {
		t.Errorf("expected normalized fields, got %+v", stored)
	}
}

func TestService_Create_Invalid(t *testing.T) {
	svc, repo := newTestService()
	tests := []Doctor{
		{Email: "a@x.com", Specialty: "Cleaning"},
		{Name: "A", Specialty: "Cleaning"},
		{Name: "A", Email: "a@x.com"},
	}
	for _, d := range tests {
		d := d
		if err := svc.Create(context.Background(), &d); !errors.Is(err, ErrInvalid) {
			t.Errorf("%+v: expected ErrInvalid, got %v", d, err)
		}
	}
	if repo.writes != 0 {
		t.Errorf("invalid doctors must not be stored")
	}
}

func TestService_GetAndDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	d := &Doctor{Name: "A", Email: "a@x.com", Specialty: "Cleaning"}
	svc.Create(ctx, d)

	got, err := svc.Get(ctx, d.ID)
	if err != nil || got.ID != d.ID {
		t.Fatalf("get: %v", err)
	}
	if err := svc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_List_Empty(t *testing.T) {
	svc, _ := newTestService()
	items, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 || total != 0 {
		t.Errorf("expected empty non-nil list, got %#v (%d)", items, total)
	}
}
