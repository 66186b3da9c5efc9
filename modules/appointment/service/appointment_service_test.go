package service

import (
	"context"
	"testing"
	"time"

	"optimeet/core/errors"
	"optimeet/core/tasks"
	"optimeet/modules/appointment/dto"
	"optimeet/modules/appointment/entity"
	scheduleEntity "optimeet/modules/schedule/entity"

	"github.com/google/uuid"
)

type fakeRequestRepo struct {
	requests    []entity.AppointmentRequest
	resolutions int
	failResolve error
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *entity.AppointmentRequest) (*entity.AppointmentRequest, error) {
	created := *req
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.requests = append(f.requests, created)
	return &created, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentRequest, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			found := f.requests[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.AppointmentRequest, error) {
	var out []entity.AppointmentRequest
	for _, r := range f.requests {
		if r.ReceiverID == receiverID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListBySender(ctx context.Context, senderID uuid.UUID) ([]entity.AppointmentRequest, error) {
	var out []entity.AppointmentRequest
	for _, r := range f.requests {
		if r.SenderID == senderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) UpdateResolution(ctx context.Context, id uuid.UUID, status entity.RequestStatus, selectedStart, selectedEnd *time.Time) error {
	if f.failResolve != nil {
		return f.failResolve
	}
	for i := range f.requests {
		if f.requests[i].ID == id {
			now := time.Now()
			f.requests[i].Status = status
			f.requests[i].SelectedStart = selectedStart
			f.requests[i].SelectedEnd = selectedEnd
			f.requests[i].RespondedAt = &now
			f.resolutions++
		}
	}
	return nil
}

type fakeCalendarRepo struct {
	schedules []scheduleEntity.Schedule
	created   []scheduleEntity.Schedule
}

func (f *fakeCalendarRepo) Create(ctx context.Context, s *scheduleEntity.Schedule) (*scheduleEntity.Schedule, error) {
	created := *s
	created.ID = uuid.New()
	f.created = append(f.created, created)
	f.schedules = append(f.schedules, created)
	return &created, nil
}

func (f *fakeCalendarRepo) GetByID(ctx context.Context, id uuid.UUID) (*scheduleEntity.Schedule, error) {
	return nil, nil
}

func (f *fakeCalendarRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]scheduleEntity.Schedule, error) {
	var out []scheduleEntity.Schedule
	for _, s := range f.schedules {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]scheduleEntity.Schedule, error) {
	return nil, nil
}

func (f *fakeCalendarRepo) UpdateStatuses(ctx context.Context, ownerID uuid.UUID, updates []scheduleEntity.StatusUpdate) (int, error) {
	return 0, nil
}

func (f *fakeCalendarRepo) ListActive(ctx context.Context) ([]scheduleEntity.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeCalendarRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}

type fakeNotifier struct {
	payloads []tasks.NotificationPayload
}

func (f *fakeNotifier) Notify(ctx context.Context, p tasks.NotificationPayload) {
	f.payloads = append(f.payloads, p)
}

type serviceFixture struct {
	svc      *AppointmentService
	requests *fakeRequestRepo
	calendar *fakeCalendarRepo
	notifier *fakeNotifier
}

func newFixture() *serviceFixture {
	requests := &fakeRequestRepo{}
	calendar := &fakeCalendarRepo{}
	notifier := &fakeNotifier{}
	svc := NewAppointmentService(requests, calendar, notifier)
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	}
	return &serviceFixture{svc: svc, requests: requests, calendar: calendar, notifier: notifier}
}

func slot(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func validRequest(receiver uuid.UUID) *dto.CreateRequestRequest {
	return &dto.CreateRequestRequest{
		ReceiverID: receiver.String(),
		Title:      "Coffee chat",
		Message:    "Any of these work?",
		ProposedTimes: []dto.ProposedTimeDTO{
			{Start: slot(12, 9), End: slot(12, 10)},
			{Start: slot(13, 14), End: slot(13, 15)},
		},
	}
}

func TestCreateRequestValidation(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	tests := []struct {
		name   string
		mutate func(*dto.CreateRequestRequest)
	}{
		{"bad receiver id", func(r *dto.CreateRequestRequest) { r.ReceiverID = "not-a-uuid" }},
		{"self send", func(r *dto.CreateRequestRequest) { r.ReceiverID = sender.String() }},
		{"missing title", func(r *dto.CreateRequestRequest) { r.Title = " " }},
		{"no proposed times", func(r *dto.CreateRequestRequest) { r.ProposedTimes = nil }},
		{"inverted interval", func(r *dto.CreateRequestRequest) {
			r.ProposedTimes[1] = dto.ProposedTimeDTO{Start: slot(13, 15), End: slot(13, 14)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest(receiver)
			tt.mutate(req)

			_, appErr := f.svc.Create(context.Background(), sender, req)
			if appErr == nil || appErr.Code != errors.ErrInvalidInput {
				t.Fatalf("got %v, want %s", appErr, errors.ErrInvalidInput)
			}
			if len(f.requests.requests) != 0 {
				t.Error("invalid request was persisted")
			}
			if len(f.notifier.payloads) != 0 {
				t.Error("invalid request triggered a notification")
			}
		})
	}
}

func TestCreateRequestUsesAuthenticatedSender(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	resp, appErr := f.svc.Create(context.Background(), sender, validRequest(receiver))
	if appErr != nil {
		t.Fatalf("create: %v", appErr)
	}

	if resp.SenderID != sender.String() {
		t.Errorf("sender = %s, want the authenticated user", resp.SenderID)
	}
	if resp.Status != string(entity.RequestStatusPending) {
		t.Errorf("status = %s, want PENDING", resp.Status)
	}

	if len(f.notifier.payloads) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifier.payloads))
	}
	if f.notifier.payloads[0].UserID != receiver {
		t.Error("notification addressed to the wrong user")
	}
}

func TestAcceptCreatesEntryThenResolves(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	created, _ := f.svc.Create(context.Background(), sender, validRequest(receiver))
	requestID := uuid.MustParse(created.ID)
	f.notifier.payloads = nil

	resp, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 1})
	if appErr != nil {
		t.Fatalf("accept: %v", appErr)
	}

	if len(f.calendar.created) != 1 {
		t.Fatalf("calendar entries = %d, want exactly 1", len(f.calendar.created))
	}
	entry := f.calendar.created[0]
	if entry.OwnerID != receiver || entry.Kind != scheduleEntity.ScheduleKindAppointment {
		t.Errorf("entry owner/kind = %s/%s", entry.OwnerID, entry.Kind)
	}
	if !entry.StartTime.Equal(slot(13, 14)) || !entry.EndTime.Equal(slot(13, 15)) {
		t.Errorf("entry interval = %v-%v, want the selected proposal", entry.StartTime, entry.EndTime)
	}

	if resp.Request.Status != string(entity.RequestStatusAccepted) {
		t.Errorf("request status = %s, want ACCEPTED", resp.Request.Status)
	}
	if resp.ScheduleID != entry.ID.String() {
		t.Error("response does not reference the created entry")
	}
	if f.requests.resolutions != 1 {
		t.Errorf("resolutions = %d, want 1", f.requests.resolutions)
	}

	if len(f.notifier.payloads) != 1 || f.notifier.payloads[0].UserID != sender {
		t.Error("acceptance should notify the sender")
	}
}

func TestAcceptConflictLeavesRequestPending(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	// The receiver already has an entry overlapping the first proposal.
	f.calendar.schedules = append(f.calendar.schedules, scheduleEntity.Schedule{
		ID:        uuid.New(),
		OwnerID:   receiver,
		StartTime: slot(12, 9),
		EndTime:   slot(12, 11),
	})

	created, _ := f.svc.Create(context.Background(), sender, validRequest(receiver))
	requestID := uuid.MustParse(created.ID)

	before := len(f.calendar.created)
	_, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 0})
	if appErr == nil || appErr.Code != errors.ErrScheduleConflict {
		t.Fatalf("got %v, want %s", appErr, errors.ErrScheduleConflict)
	}

	if len(f.calendar.created) != before {
		t.Error("conflicting accept created a calendar entry")
	}
	stored, _ := f.requests.GetByID(context.Background(), requestID)
	if stored.Status != entity.RequestStatusPending {
		t.Errorf("request status = %s, want still PENDING", stored.Status)
	}

	// The other proposal is free, so a retry with it succeeds.
	if _, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 1}); appErr != nil {
		t.Fatalf("retry with free slot: %v", appErr)
	}
}

func TestAcceptGuards(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	created, _ := f.svc.Create(context.Background(), sender, validRequest(receiver))
	requestID := uuid.MustParse(created.ID)

	// Only the receiver can resolve; anyone else sees not-found.
	if _, appErr := f.svc.Accept(context.Background(), requestID, sender, &dto.AcceptRequestRequest{SelectedIndex: 0}); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("non-receiver accept: got %v, want %s", appErr, errors.ErrNotFound)
	}

	if _, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 5}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("out-of-range index: got %v, want %s", appErr, errors.ErrInvalidInput)
	}

	if _, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 0}); appErr != nil {
		t.Fatalf("accept: %v", appErr)
	}
	// Already resolved.
	if _, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 0}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("double accept: got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}

func TestAcceptResolutionFailureKeepsEntry(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	created, _ := f.svc.Create(context.Background(), sender, validRequest(receiver))
	requestID := uuid.MustParse(created.ID)

	f.requests.failResolve = context.DeadlineExceeded
	_, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 0})
	if appErr == nil || appErr.Code != errors.ErrInternalServer {
		t.Fatalf("got %v, want %s", appErr, errors.ErrInternalServer)
	}

	// The calendar write is not rolled back; the request stays pending for
	// manual reconciliation.
	if len(f.calendar.created) != 1 {
		t.Errorf("calendar entries = %d, want the orphaned entry kept", len(f.calendar.created))
	}
	stored, _ := f.requests.GetByID(context.Background(), requestID)
	if stored.Status != entity.RequestStatusPending {
		t.Errorf("request status = %s, want PENDING", stored.Status)
	}
}

func TestReject(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	f := newFixture()

	created, _ := f.svc.Create(context.Background(), sender, validRequest(receiver))
	requestID := uuid.MustParse(created.ID)
	f.notifier.payloads = nil

	resp, appErr := f.svc.Reject(context.Background(), requestID, receiver)
	if appErr != nil {
		t.Fatalf("reject: %v", appErr)
	}

	if resp.Status != string(entity.RequestStatusRejected) {
		t.Errorf("status = %s, want REJECTED", resp.Status)
	}
	if len(f.calendar.created) != 0 {
		t.Error("reject created a calendar entry")
	}
	if len(f.notifier.payloads) != 1 || f.notifier.payloads[0].UserID != sender {
		t.Error("rejection should notify the sender")
	}

	// Terminal: a later accept is refused.
	if _, appErr := f.svc.Accept(context.Background(), requestID, receiver, &dto.AcceptRequestRequest{SelectedIndex: 0}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("accept after reject: got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}
