package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"meetbook/config"
	"meetbook/infras/kafka"
	kafkaMocks "meetbook/infras/kafka/mocks"
	"meetbook/infras/metrics"
	otelMocks "meetbook/infras/otel/mocks"
	attendeeMocks "meetbook/internal/domains/attendee/mocks"
	attendeeModel "meetbook/internal/domains/attendee/model"
	eventMocks "meetbook/internal/domains/event/mocks"
	slotMocks "meetbook/internal/domains/slot/mocks"
	"meetbook/internal/domains/slot/model"
	"meetbook/internal/domains/slot/model/dto"
	"meetbook/internal/domains/slot/service"
	cacheMocks "meetbook/shared/cache/mocks"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	repoMocks "meetbook/shared/repository/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *slotMocks.MockSlot
	attendeeRepo *attendeeMocks.MockAttendee
	eventRepo    *eventMocks.MockEvent
	activity     *kafkaMocks.MockClient
	transactor   *repoMocks.Transactor
	registry     *prometheus.Registry
	svc          service.Slot
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := slotMocks.NewMockSlot(ctrl)
	attendeeRepo := attendeeMocks.NewMockAttendee(ctrl)
	eventRepo := eventMocks.NewMockEvent(ctrl)
	activity := kafkaMocks.NewMockClient(ctrl)
	transactor := repoMocks.NewTransactor()
	registry := prometheus.NewRegistry()
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return fixture{
		repo:         repo,
		attendeeRepo: attendeeRepo,
		eventRepo:    eventRepo,
		activity:     activity,
		transactor:   transactor,
		registry:     registry,
		svc: service.New(repo, attendeeRepo, eventRepo, transactor, activity,
			metrics.NewWithRegistry(registry), cfg, redisCache, otelMocks.NewOtel()),
	}
}

// memoryStore backs the slot and attendee mocks with plain slices so the
// booking rules can be exercised end to end.
type memoryStore struct {
	slots    []model.Slot
	statuses map[string]string
}

func newMemoryStore(attendeeIDs ...string) *memoryStore {
	store := &memoryStore{statuses: map[string]string{}}
	for _, id := range attendeeIDs {
		store.statuses[id] = attendeeModel.StatusPending
	}

	return store
}

func slotMatches(slot model.Slot, args map[string]any) bool {
	for key, value := range args {
		var field string

		switch key {
		case model.FieldID:
			field = slot.ID
		case model.FieldEventID:
			field = slot.EventID
		case model.FieldAttendeeID:
			field = slot.AttendeeID
		case model.FieldCompany:
			field = slot.Company
		case model.FieldTimeSlot:
			field = slot.TimeSlot
		default:
			return false
		}

		if field != value {
			return false
		}
	}

	return true
}

func (m *memoryStore) wire(f fixture) {
	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			_, args := filter.GetWhereClause()
			for _, slot := range m.slots {
				if slotMatches(slot, args) {
					return true, nil
				}
			}

			return false, nil
		}).AnyTimes()

	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, slot model.Slot) error {
			m.slots = append(m.slots, slot)

			return nil
		}).AnyTimes()

	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
			_, args := filter.GetWhereClause()

			kept := m.slots[:0]
			deleted := int64(0)

			for _, slot := range m.slots {
				if slotMatches(slot, args) {
					deleted++

					continue
				}

				kept = append(kept, slot)
			}

			m.slots = kept

			return deleted, nil
		}).AnyTimes()

	f.attendeeRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
			_, args := filter.GetWhereClause()

			id, _ := args[attendeeModel.FieldID].(string)
			if _, ok := m.statuses[id]; !ok {
				return 0, nil
			}

			m.statuses[id], _ = fields[attendeeModel.FieldStatus].(string)

			return 1, nil
		}).AnyTimes()

	f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()
}

func book(eventID, attendeeID, company, timeSlot string) dto.BookSlotRequest {
	return dto.BookSlotRequest{EventID: eventID, AttendeeID: attendeeID, Company: company, TimeSlot: timeSlot}
}

func TestSlotService_BookingRules(t *testing.T) {
	f := newFixture(t)
	store := newMemoryStore("alice", "bob")
	store.wire(f)

	ctx := context.Background()

	_, err := f.svc.Book(ctx, book("e1", "alice", "Acme", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, attendeeModel.StatusScheduled, store.statuses["alice"])

	_, err = f.svc.Book(ctx, book("e1", "alice", "Globex", "10:30"))
	assert.EqualError(t, err, "slot already booked, please choose another slot")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	_, err = f.svc.Book(ctx, book("e1", "bob", "Acme", "10:30"))
	assert.EqualError(t, err, "this time is already booked for the selected company")

	_, err = f.svc.Book(ctx, book("e1", "alice", "Acme", "11:00"))
	assert.EqualError(t, err, "slot with same company already booked")

	_, err = f.svc.Book(ctx, book("e1", "bob", "Acme", "11:00"))
	require.NoError(t, err)

	assert.Len(t, store.slots, 2)
	assert.Equal(t, attendeeModel.StatusScheduled, store.statuses["bob"])
}

func TestSlotService_Book(t *testing.T) {
	req := book("e1", "a1", " Acme ", "10:30")

	tests := []struct {
		name       string
		setupMock  func(f fixture)
		wantErr    string
		wantCode   int
		wantRolled int
	}{
		{
			name: "books and schedules the attendee",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, slot model.Slot) error {
						assert.Equal(t, "Acme", slot.Company)
						assert.False(t, slot.Completed)

						return nil
					})
				f.attendeeRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, attendeeModel.StatusScheduled, fields[attendeeModel.FieldStatus])

						return 1, nil
					})
				f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, activity kafka.Activity) {
						assert.Equal(t, kafka.ActivitySlotBooked, activity.Type)
						assert.Equal(t, "e1", activity.EventID)
					})
			},
		},
		{
			name: "unknown event",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  "event not found",
			wantCode: http.StatusNotFound,
		},
		{
			name: "second rule stops the check list",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				gomock.InOrder(
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantErr:  "this time is already booked for the selected company",
			wantCode: http.StatusConflict,
		},
		{
			name: "race caught by unique constraint",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (slot): %w", &pq.Error{Code: "23505", Constraint: "slots_event_attendee_company_key"}))
			},
			wantErr:    "slot with same company already booked",
			wantCode:   http.StatusConflict,
			wantRolled: 1,
		},
		{
			name: "missing attendee rolls the slot back",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.attendeeRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantErr:    "attendee not found",
			wantCode:   http.StatusNotFound,
			wantRolled: 1,
		},
		{
			name: "attendee foreign key violation",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23503", Constraint: "slots_attendee_id_fkey"})
			},
			wantErr:    "attendee not found",
			wantCode:   http.StatusNotFound,
			wantRolled: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Book(context.Background(), req)

			assert.Equal(t, tt.wantRolled, f.transactor.RolledBack)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "Acme", res.Company)
			assert.Equal(t, 1, f.transactor.Committed)
		})
	}
}

func TestSlotService_BookCountsConflicts(t *testing.T) {
	f := newFixture(t)

	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := f.svc.Book(context.Background(), book("e1", "a1", "Acme", "10:30"))
	require.Error(t, err)

	expected := `
# HELP meetbook_slot_conflicts_total Rejected bookings by conflict kind
# TYPE meetbook_slot_conflicts_total counter
meetbook_slot_conflicts_total{kind="attendee_time"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "meetbook_slot_conflicts_total"))
}

func TestSlotService_Delete(t *testing.T) {
	req := dto.DeleteSlotRequest{EventID: "e1", AttendeeID: "alice", TimeSlot: "10:30"}

	t.Run("resets the attendee to pending", func(t *testing.T) {
		f := newFixture(t)
		store := newMemoryStore("alice")
		store.wire(f)

		_, err := f.svc.Book(context.Background(), book("e1", "alice", "Acme", "10:30"))
		require.NoError(t, err)

		store.statuses["alice"] = attendeeModel.StatusCompleted

		require.NoError(t, f.svc.Delete(context.Background(), req))
		assert.Empty(t, store.slots)
		assert.Equal(t, attendeeModel.StatusPending, store.statuses["alice"])
	})

	t.Run("missing slot writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Delete(context.Background(), req)

		assert.EqualError(t, err, "slot not found")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Equal(t, 1, f.transactor.RolledBack)
	})

	t.Run("missing attendee is reported distinctly", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.attendeeRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Delete(context.Background(), req)

		assert.EqualError(t, err, "attendee not found")
		assert.Equal(t, 1, f.transactor.RolledBack)
	})
}

func TestSlotService_ToggleCompletion(t *testing.T) {
	completed := true
	notCompleted := false

	stored := model.Slot{ID: "s1", EventID: "e1", AttendeeID: "a1", Company: "Acme", TimeSlot: "10:30"}

	tests := []struct {
		name       string
		req        dto.ToggleCompletionRequest
		setupMock  func(f fixture)
		wantStatus string
		wantCode   int
	}{
		{
			name: "completed marks the attendee completed",
			req:  dto.ToggleCompletionRequest{Completed: &completed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, true, fields[model.FieldCompleted])

						return 1, nil
					})
				f.activity.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			wantStatus: attendeeModel.StatusCompleted,
		},
		{
			name: "not completed moves the attendee back to scheduled",
			req:  dto.ToggleCompletionRequest{Completed: &notCompleted},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.activity.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			wantStatus: attendeeModel.StatusScheduled,
		},
		{
			name:      "missing flag",
			req:       dto.ToggleCompletionRequest{},
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing slot",
			req:  dto.ToggleCompletionRequest{Completed: &completed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Slot{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			if tt.wantStatus != "" {
				f.attendeeRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, tt.wantStatus, fields[attendeeModel.FieldStatus])

						return 1, nil
					})
			}

			res, err := f.svc.ToggleCompletion(context.Background(), tt.req, "s1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, *tt.req.Completed, res.Completed)
		})
	}
}

func TestSlotService_GetByCompany(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetByCompany(gomock.Any(), "e1", "Acme").Return([]model.SlotDetail{{
		Slot:              model.Slot{ID: "s1", EventID: "e1", AttendeeID: "a1", Company: "Acme", TimeSlot: "10:30"},
		AttendeeFirstName: "Alice",
		AttendeeEmail:     "alice@x.com",
		AttendeeStatus:    attendeeModel.StatusScheduled,
	}}, nil)

	res, err := f.svc.GetByCompany(context.Background(), "e1", "  Acme ")

	require.NoError(t, err)
	assert.Equal(t, "Acme", res.Company)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, "Alice", res.Slots[0].Attendee.FirstName)
	assert.Equal(t, "10:30", res.Slots[0].TimeSlot)

	_, err = f.svc.GetByCompany(context.Background(), "e1", "   ")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestSlotService_CompanyCounts(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().CompanyCounts(gomock.Any(), "e1").Return([]model.CompanyCount{
		{Company: "Acme", Count: 3},
		{Company: "Globex", Count: 1},
	}, nil)

	res, err := f.svc.CompanyCounts(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, []dto.CompanyCountResponse{{Company: "Acme", Count: 3}, {Company: "Globex", Count: 1}}, res.Companies)
}

func TestSlotService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Slot, error) {
			assert.Equal(t, "slots.time_slot", params.SortBy)
			assert.Zero(t, params.Limit)

			return []model.Slot{{ID: "s1"}, {ID: "s2"}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), "e1")

	require.NoError(t, err)
	assert.Len(t, res.Slots, 2)
}
