package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"meetbook/config"
	otelMocks "meetbook/infras/otel/mocks"
	attendeeMocks "meetbook/internal/domains/attendee/mocks"
	"meetbook/internal/domains/attendee/model"
	"meetbook/internal/domains/attendee/model/dto"
	"meetbook/internal/domains/attendee/service"
	eventMocks "meetbook/internal/domains/event/mocks"
	cacheMocks "meetbook/shared/cache/mocks"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo      *attendeeMocks.MockAttendee
	eventRepo *eventMocks.MockEvent
	svc       service.Attendee
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := attendeeMocks.NewMockAttendee(ctrl)
	eventRepo := eventMocks.NewMockEvent(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return fixture{
		repo:      repo,
		eventRepo: eventRepo,
		svc:       service.New(repo, eventRepo, cfg, redisCache, otelMocks.NewOtel()),
	}
}

func storedAttendee() model.Attendee {
	serial := 4

	return model.Attendee{
		ID:         "a1",
		EventID:    "e1",
		SerialNo:   &serial,
		FirstName:  "Alice",
		LastName:   "Doe",
		Company:    "Initech",
		Email:      "alice@x.com",
		SelectedBy: model.BrandSelections{{BrandName: "Acme", Selected: true}},
		Status:     model.StatusScheduled,
	}
}

func TestAttendeeService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Attendee{storedAttendee()}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.Attendees, 1)
	assert.Equal(t, []model.BrandSelection{{BrandName: "Acme", Selected: true}}, res.Attendees[0].SelectedBy)
	assert.Equal(t, 4, *res.Attendees[0].SerialNo)
}

func TestAttendeeService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedAttendee(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attendee{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attendee{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "a1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice@x.com", res.Email)
		})
	}
}

func TestAttendeeService_Update(t *testing.T) {
	comment := "met at booth"
	collected := false

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateAttendeeRequest{}, "a1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("writes only provided fields", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, comment, fields[model.FieldComment])
				assert.Equal(t, false, fields[model.FieldGiftCollected])
				assert.NotContains(t, fields, model.FieldStatus)
				assert.Equal(t, "organizer-1", fields[constant.FieldModifiedBy])

				return 1, nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "organizer-1")
		err := f.svc.Update(ctx, dto.UpdateAttendeeRequest{Comment: &comment, GiftCollected: &collected}, "a1")

		assert.NoError(t, err)
	})

	t.Run("collected gift is credited to the acting user", func(t *testing.T) {
		f := newFixture(t)
		collected := true
		giftBy := "someone-else"

		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, true, fields[model.FieldGiftCollected])
				assert.Equal(t, "organizer-1", fields[model.FieldGiftBy])

				return 1, nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "organizer-1")
		err := f.svc.Update(ctx, dto.UpdateAttendeeRequest{GiftCollected: &collected, GiftBy: &giftBy}, "a1")

		assert.NoError(t, err)
	})

	t.Run("missing attendee", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Update(context.Background(), dto.UpdateAttendeeRequest{Comment: &comment}, "missing")

		assert.EqualError(t, err, "attendee not found")
	})
}

func TestAttendeeService_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)

		assert.NoError(t, f.svc.Delete(context.Background(), "a1"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.Delete(context.Background(), "a1")))
	})
}

func TestAttendeeService_DeleteAllByEvent(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      int64
		wantCode  int
	}{
		{
			name: "reports deleted count",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int64, error) {
						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "attendees.event_id")
						assert.Equal(t, "e1", args[model.FieldEventID])

						return 7, nil
					})
			},
			want: 7,
		},
		{
			name: "unknown event",
			setupMock: func(f fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.DeleteAllByEvent(context.Background(), "e1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.DeletedCount)
		})
	}
}

func TestAttendeeService_UpdateStatusByEmail(t *testing.T) {
	req := dto.UpdateStatusByEmailRequest{EventID: "e1", Email: "ALICE@x.com", Status: model.StatusNotAvailable}

	t.Run("matches email case-insensitively", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Attendee, error) {
				where, _ := filter.GetWhereClause()
				assert.Contains(t, where, "LOWER(attendees.email) = LOWER(:email)")

				return storedAttendee(), nil
			})
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, model.StatusNotAvailable, fields[model.FieldStatus])

				return 1, nil
			})

		res, err := f.svc.UpdateStatusByEmail(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, dto.AttendeeStatusResponse{
			Email: "alice@x.com", Status: model.StatusNotAvailable, FirstName: "Alice", LastName: "Doe",
		}, res)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attendee{}, nil)

		_, err := f.svc.UpdateStatusByEmail(context.Background(), req)

		assert.EqualError(t, err, "attendee not found with the provided email")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
