package service_test

import (
	"context"
	"net/http"
	"testing"

	"meetbook/infras/kafka"
	kafkaMocks "meetbook/infras/kafka/mocks"
	"meetbook/infras/metrics"
	otelMocks "meetbook/infras/otel/mocks"
	attendeeMocks "meetbook/internal/domains/attendee/mocks"
	eventMocks "meetbook/internal/domains/event/mocks"
	partnerMocks "meetbook/internal/domains/partnerrequest/mocks"
	"meetbook/internal/domains/partnerrequest/model"
	"meetbook/internal/domains/partnerrequest/model/dto"
	"meetbook/internal/domains/partnerrequest/service"
	slotMocks "meetbook/internal/domains/slot/mocks"
	slotDto "meetbook/internal/domains/slot/model/dto"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	repoMocks "meetbook/shared/repository/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	eventID    = "7a0c8b1e-3d2f-4e5a-9b6c-1d2e3f4a5b6c"
	delegateID = "0b1c2d3e-4f5a-4b6c-8d7e-9f0a1b2c3d4e"
	partnerA   = "1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
	partnerB   = "2d3e4f5a-6b7c-4d8e-9f0a-1b2c3d4e5f6a"
	requestID  = "r1"
)

type fixture struct {
	repo         *partnerMocks.MockPartnerRequest
	attendeeRepo *attendeeMocks.MockAttendee
	eventRepo    *eventMocks.MockEvent
	slots        *slotMocks.MockSlotService
	activity     *kafkaMocks.MockClient
	transactor   *repoMocks.Transactor
	registry     *prometheus.Registry
	svc          service.PartnerRequest
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := partnerMocks.NewMockPartnerRequest(ctrl)
	attendeeRepo := attendeeMocks.NewMockAttendee(ctrl)
	eventRepo := eventMocks.NewMockEvent(ctrl)
	slots := slotMocks.NewMockSlotService(ctrl)
	activity := kafkaMocks.NewMockClient(ctrl)
	transactor := repoMocks.NewTransactor()
	registry := prometheus.NewRegistry()

	return fixture{
		repo:         repo,
		attendeeRepo: attendeeRepo,
		eventRepo:    eventRepo,
		slots:        slots,
		activity:     activity,
		transactor:   transactor,
		registry:     registry,
		svc: service.New(repo, attendeeRepo, eventRepo, slots, transactor, activity,
			metrics.NewWithRegistry(registry), otelMocks.NewOtel()),
	}
}

func organizer() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "organizer-1")
}

func storedRequest(statuses ...string) model.PartnerRequest {
	ids := []string{partnerA, partnerB}
	companies := []string{"AcmeCo", "BetaCo"}

	partners := make(model.Partners, len(statuses))
	for i, status := range statuses {
		partners[i] = model.Partner{AttendeeID: ids[i], Company: companies[i], Status: status}
	}

	return model.PartnerRequest{
		ID:         requestID,
		EventID:    eventID,
		DelegateID: delegateID,
		Partners:   partners,
		Status:     partners.Status(),
	}
}

func createRequest() dto.CreatePartnerRequestRequest {
	return dto.CreatePartnerRequestRequest{
		EventID:    eventID,
		DelegateID: delegateID,
		Partners: []dto.PartnerInput{
			{AttendeeID: partnerA, Company: " AcmeCo "},
			{AttendeeID: partnerB, Company: "BetaCo"},
		},
		DueDate: "2025-03-01",
	}
}

func TestPartnerRequestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       func() dto.CreatePartnerRequestRequest
		setupMock func(f fixture)
		wantErr   string
		wantCode  int
	}{
		{
			name: "stores a pending request",
			req:  createRequest,
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.attendeeRepo.EXPECT().Count(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, eventID, args["event_id"])
						assert.Equal(t, delegateID, args["id_0"])
						assert.Equal(t, partnerB, args["id_2"])

						return 3, nil
					})
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, request model.PartnerRequest) error {
						assert.Equal(t, model.StatusPending, request.Status)
						assert.Equal(t, "AcmeCo", request.Partners[0].Company)
						assert.Equal(t, "organizer-1", request.CreatedBy)

						return nil
					})
				f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, activity kafka.Activity) {
						assert.Equal(t, kafka.ActivityPartnerRequestCreated, activity.Type)
					})
			},
		},
		{
			name: "delegate listed as a partner",
			req: func() dto.CreatePartnerRequestRequest {
				req := createRequest()
				req.Partners[1].AttendeeID = delegateID

				return req
			},
			setupMock: func(fixture) {},
			wantErr:   "delegate cannot be one of the partners",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "partner listed twice",
			req: func() dto.CreatePartnerRequestRequest {
				req := createRequest()
				req.Partners[1].AttendeeID = partnerA

				return req
			},
			setupMock: func(fixture) {},
			wantErr:   "partner " + partnerA + " is listed twice",
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "unknown event",
			req:       createRequest,
			setupMock: func(f fixture) { f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil) },
			wantErr:   "event not found",
			wantCode:  http.StatusNotFound,
		},
		{
			name: "partner from another event",
			req:  createRequest,
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.attendeeRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
			},
			wantErr:  "attendee not found",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(organizer(), tt.req())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "2025-03-01", res.DueDate)
			assert.Len(t, res.Partners, 2)
		})
	}
}

func TestPartnerRequestService_Approve(t *testing.T) {
	t.Run("books the delegate with the partner's company", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(storedRequest(model.StatusPending, model.StatusDeclined), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, model.StatusPartiallyApproved, fields[model.FieldStatus])
				assert.Equal(t, "organizer-1", fields[constant.FieldModifiedBy])

				return 1, nil
			})
		f.slots.EXPECT().Book(gomock.Any(), slotDto.BookSlotRequest{
			EventID:    eventID,
			AttendeeID: delegateID,
			Company:    "AcmeCo",
			TimeSlot:   "10:30",
		}).Return(slotDto.SlotResponse{ID: "s1", Company: "AcmeCo", TimeSlot: "10:30"}, nil)
		f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, activity kafka.Activity) {
				assert.Equal(t, kafka.ActivityPartnerApproved, activity.Type)
			})

		res, err := f.svc.Approve(organizer(), dto.ApprovePartnerRequest{TimeSlot: "10:30"}, requestID, partnerA)

		require.NoError(t, err)
		require.NotNil(t, res.Slot)
		assert.Equal(t, "s1", res.Slot.ID)
		assert.Equal(t, model.StatusApproved, res.Request.Partners[0].Status)
		assert.NotEmpty(t, res.Request.Partners[0].DecidedAt)
		assert.Equal(t, 1, f.transactor.Committed)

		count, err := testutil.GatherAndCount(f.registry, "meetbook_partner_decisions_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("without a time slot nothing is booked", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(storedRequest(model.StatusPending), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.activity.EXPECT().Publish(gomock.Any(), gomock.Any())

		res, err := f.svc.Approve(organizer(), dto.ApprovePartnerRequest{}, requestID, partnerA)

		require.NoError(t, err)
		assert.Nil(t, res.Slot)
		assert.Equal(t, model.StatusApproved, res.Request.Status)
	})

	t.Run("a rejected booking rolls the decision back", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(storedRequest(model.StatusPending), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.slots.EXPECT().Book(gomock.Any(), gomock.Any()).
			Return(slotDto.SlotResponse{}, failure.Conflict("company already has a meeting at this time"))

		_, err := f.svc.Approve(organizer(), dto.ApprovePartnerRequest{TimeSlot: "10:30"}, requestID, partnerA)

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, 1, f.transactor.RolledBack)
		assert.Equal(t, 0, f.transactor.Committed)

		count, err := testutil.GatherAndCount(f.registry, "meetbook_partner_decisions_total")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestPartnerRequestService_Decide_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		partnerID string
		setupMock func(f fixture)
		wantErr   string
		wantCode  int
	}{
		{
			name:      "unknown request",
			partnerID: partnerA,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.PartnerRequest{}, nil)
			},
			wantErr:  "partner request not found",
			wantCode: http.StatusNotFound,
		},
		{
			name:      "partner not in the request",
			partnerID: "someone",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(storedRequest(model.StatusPending), nil)
			},
			wantErr:  "partner not found in request",
			wantCode: http.StatusNotFound,
		},
		{
			name:      "partner already decided",
			partnerID: partnerA,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(storedRequest(model.StatusDeclined), nil)
			},
			wantErr:  "partner already processed",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Decline(organizer(), dto.DeclinePartnerRequest{}, requestID, tt.partnerID)

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
			assert.Equal(t, 1, f.transactor.RolledBack)
		})
	}
}

func TestPartnerRequestService_Decline(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(storedRequest(model.StatusDeclined, model.StatusPending), nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
			partners, ok := fields[model.FieldPartners].(model.Partners)
			require.True(t, ok)
			assert.Equal(t, "fully booked", partners[1].Notes)
			assert.Equal(t, model.StatusDeclined, fields[model.FieldStatus])

			return 1, nil
		})
	f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, activity kafka.Activity) {
			assert.Equal(t, kafka.ActivityPartnerDeclined, activity.Type)
		})

	res, err := f.svc.Decline(organizer(), dto.DeclinePartnerRequest{Reason: "fully booked"}, requestID, partnerB)

	require.NoError(t, err)
	assert.Equal(t, model.StatusDeclined, res.Request.Status)
	assert.Nil(t, res.Slot)
}

func TestPartnerRequestService_GetAndDelete(t *testing.T) {
	t.Run("get missing request", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.PartnerRequest{}, nil)

		_, err := f.svc.Get(context.Background(), requestID)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("delete missing request", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Delete(context.Background(), requestID)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("get all pages results", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.PartnerRequest{storedRequest(model.StatusPending)}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
		assert.Len(t, res.PartnerRequests, 1)
	})
}
