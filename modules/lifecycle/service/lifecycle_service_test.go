package service

import (
	"context"
	"testing"
	"time"

	"optimeet/modules/schedule/entity"

	"github.com/google/uuid"
)

type fakeSweepRepo struct {
	schedules []entity.Schedule
	calls     []sweepCall
}

type sweepCall struct {
	ownerID uuid.UUID
	updates []entity.StatusUpdate
}

func (f *fakeSweepRepo) Create(ctx context.Context, s *entity.Schedule) (*entity.Schedule, error) {
	return s, nil
}

func (f *fakeSweepRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return nil, nil
}

func (f *fakeSweepRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Schedule, error) {
	return nil, nil
}

func (f *fakeSweepRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Schedule, error) {
	return nil, nil
}

func (f *fakeSweepRepo) UpdateStatuses(ctx context.Context, ownerID uuid.UUID, updates []entity.StatusUpdate) (int, error) {
	f.calls = append(f.calls, sweepCall{ownerID: ownerID, updates: updates})
	return len(updates), nil
}

func (f *fakeSweepRepo) ListActive(ctx context.Context) ([]entity.Schedule, error) {
	var out []entity.Schedule
	for _, s := range f.schedules {
		if s.Status != entity.StatusCancelled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSweepRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}

var sweepNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func sweepService(repo *fakeSweepRepo) *LifecycleService {
	svc := NewLifecycleService(repo)
	svc.now = func() time.Time { return sweepNow }
	return svc
}

func entry(owner uuid.UUID, status entity.LifecycleStatus, start, end time.Time) entity.Schedule {
	return entity.Schedule{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     "entry",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestSweepTransitions(t *testing.T) {
	owner := uuid.New()

	started := entry(owner, entity.StatusUpcoming, sweepNow.Add(-time.Hour), sweepNow.Add(time.Hour))
	finished := entry(owner, entity.StatusInProgress, sweepNow.Add(-3*time.Hour), sweepNow.Add(-time.Hour))
	future := entry(owner, entity.StatusUpcoming, sweepNow.Add(time.Hour), sweepNow.Add(2*time.Hour))
	done := entry(owner, entity.StatusCompleted, sweepNow.Add(-5*time.Hour), sweepNow.Add(-4*time.Hour))

	repo := &fakeSweepRepo{schedules: []entity.Schedule{started, finished, future, done}}
	applied, err := sweepService(repo).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(repo.calls) != 1 {
		t.Fatalf("update calls = %d, want one batch per owner", len(repo.calls))
	}

	got := make(map[uuid.UUID]entity.StatusUpdate)
	for _, u := range repo.calls[0].updates {
		got[u.ID] = u
	}

	u, ok := got[started.ID]
	if !ok || u.ComputedStatus != entity.StatusInProgress || u.FetchedStatus != entity.StatusUpcoming {
		t.Errorf("started entry update = %+v", u)
	}
	u, ok = got[finished.ID]
	if !ok || u.ComputedStatus != entity.StatusCompleted || u.FetchedStatus != entity.StatusInProgress {
		t.Errorf("finished entry update = %+v", u)
	}
	if _, ok := got[future.ID]; ok {
		t.Error("unchanged future entry was updated")
	}
	if _, ok := got[done.ID]; ok {
		t.Error("already-completed entry was updated")
	}
}

func TestSweepGroupsByOwner(t *testing.T) {
	ownerA := uuid.New()
	ownerB := uuid.New()

	repo := &fakeSweepRepo{schedules: []entity.Schedule{
		entry(ownerA, entity.StatusUpcoming, sweepNow.Add(-time.Hour), sweepNow.Add(time.Hour)),
		entry(ownerB, entity.StatusUpcoming, sweepNow.Add(-time.Hour), sweepNow.Add(time.Hour)),
	}}

	applied, err := sweepService(repo).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(repo.calls) != 2 {
		t.Fatalf("update calls = %d, want one per owner", len(repo.calls))
	}
	for _, call := range repo.calls {
		for _, u := range call.updates {
			if u.OwnerID != call.ownerID {
				t.Errorf("batch for %s carried update owned by %s", call.ownerID, u.OwnerID)
			}
		}
	}
}

func TestSweepSkipsCancelled(t *testing.T) {
	owner := uuid.New()
	repo := &fakeSweepRepo{schedules: []entity.Schedule{
		entry(owner, entity.StatusCancelled, sweepNow.Add(-3*time.Hour), sweepNow.Add(-2*time.Hour)),
	}}

	applied, err := sweepService(repo).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if applied != 0 || len(repo.calls) != 0 {
		t.Errorf("cancelled entry was swept: applied=%d calls=%d", applied, len(repo.calls))
	}
}

func TestSweepMidnightSpan(t *testing.T) {
	owner := uuid.New()
	// Stored end of 01:00 is before the 11:00 start, so it wraps to the next
	// day; at noon the entry is still running.
	start := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC)

	repo := &fakeSweepRepo{schedules: []entity.Schedule{
		entry(owner, entity.StatusUpcoming, start, end),
	}}

	applied, err := sweepService(repo).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}
	if got := repo.calls[0].updates[0].ComputedStatus; got != entity.StatusInProgress {
		t.Errorf("computed = %s, want IN_PROGRESS until the normalized end", got)
	}
}
