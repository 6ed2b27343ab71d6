package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"meetbook/config"
	"meetbook/infras/kafka"
	kafkaMocks "meetbook/infras/kafka/mocks"
	"meetbook/infras/metrics"
	otelMocks "meetbook/infras/otel/mocks"
	s3Mocks "meetbook/infras/s3/mocks"
	attendeeMocks "meetbook/internal/domains/attendee/mocks"
	attendeeModel "meetbook/internal/domains/attendee/model"
	eventMocks "meetbook/internal/domains/event/mocks"
	"meetbook/internal/domains/roster/model/dto"
	"meetbook/internal/domains/roster/service"
	cacheMocks "meetbook/shared/cache/mocks"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	attendeeRepo *attendeeMocks.MockAttendee
	eventRepo    *eventMocks.MockEvent
	storage      *s3Mocks.MockS3
	activity     *kafkaMocks.MockClient
	cache        *cacheMocks.MockRedisCache
	registry     *prometheus.Registry
	cfg          *config.Config
	svc          service.Roster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		attendeeRepo: attendeeMocks.NewMockAttendee(ctrl),
		eventRepo:    eventMocks.NewMockEvent(ctrl),
		storage:      s3Mocks.NewMockS3(ctrl),
		activity:     kafkaMocks.NewMockClient(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		registry:     prometheus.NewRegistry(),
		cfg:          &config.Config{},
	}

	f.svc = service.New(f.attendeeRepo, f.eventRepo, f.storage, f.activity,
		metrics.NewWithRegistry(f.registry), f.cfg, f.cache, otelMocks.NewOtel())

	return f
}

func (f *fixture) expectWritesFinished() {
	f.activity.EXPECT().Publish(gomock.Any(), gomock.Any())
	f.cache.EXPECT().Clear(gomock.Any(), "attendee*").Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), "slot*").Return(nil)
}

func csvUpload(lines ...string) dto.Upload {
	return dto.Upload{
		EventID:     "e1",
		FileName:    "roster.csv",
		ContentType: "text/csv",
		Content:     []byte(strings.Join(lines, "\n")),
	}
}

func TestRosterService_Ingest(t *testing.T) {
	stored := attendeeModel.Attendee{
		ID:         "a1",
		EventID:    "e1",
		Email:      "A@x.com",
		SelectedBy: attendeeModel.BrandSelections{{BrandName: "AcmeCo", Selected: true}},
		Status:     attendeeModel.StatusScheduled,
	}

	f := newFixture(t)

	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.attendeeRepo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any()).Return([]attendeeModel.Attendee{stored}, nil)
	f.attendeeRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "a1", args[attendeeModel.FieldID])
			assert.Equal(t, attendeeModel.BrandSelections{
				{BrandName: "AcmeCo", Selected: false},
				{BrandName: "BetaCo", Selected: true},
			}, fields[attendeeModel.FieldSelectedBy])
			assert.NotContains(t, fields, attendeeModel.FieldStatus)

			return 1, nil
		})
	f.attendeeRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, attendee attendeeModel.Attendee) error {
			assert.Equal(t, "b@x.com", attendee.Email)
			assert.Equal(t, attendeeModel.StatusPending, attendee.Status)

			return nil
		})
	f.expectWritesFinished()

	res, err := f.svc.Ingest(context.Background(), csvUpload(
		"Email Address,First Name,AcmeCo,BetaCo",
		"a@x.com,,,1CORP",
		"b@x.com,Bob,1PTR,",
		",Ghost,1PTR,",
	))

	require.NoError(t, err)
	assert.Equal(t, dto.IngestRosterResponse{
		Message:  "File processed successfully",
		Inserted: 1,
		Updated:  1,
		Skipped:  1,
		Total:    2,
	}, res)

	count, err := testutil.GatherAndCount(f.registry, "meetbook_roster_ingests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRosterService_IngestRejects(t *testing.T) {
	tests := []struct {
		name      string
		upload    dto.Upload
		setupMock func(f *fixture)
		wantErr   string
		wantCode  int
	}{
		{
			name:   "unknown event",
			upload: csvUpload("Email Address", "a@x.com"),
			setupMock: func(f *fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  "event not found",
			wantCode: http.StatusNotFound,
		},
		{
			name:   "header only",
			upload: csvUpload("Email Address,AcmeCo"),
			setupMock: func(f *fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "no valid data rows found in the file",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "no row has an email",
			upload: csvUpload("Email Address,First Name", ",Alice", ",Bob"),
			setupMock: func(f *fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "no valid data to process",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "unreadable workbook",
			upload: dto.Upload{EventID: "e1", FileName: "roster.xlsx", Content: []byte("garbage")},
			setupMock: func(f *fixture) {
				f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Ingest(context.Background(), tt.upload)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.ErrorContains(t, err, "failed to read spreadsheet")
			}
		})
	}
}

func TestRosterService_IngestBestEffortRows(t *testing.T) {
	f := newFixture(t)

	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.attendeeRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	gomock.InOrder(
		f.attendeeRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("duplicate key")),
		f.attendeeRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
	)
	f.expectWritesFinished()

	res, err := f.svc.Ingest(context.Background(), csvUpload("Email Address", "a@x.com", "b@x.com"))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Total)
}

func TestRosterService_IngestCountsMergedRows(t *testing.T) {
	f := newFixture(t)

	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.attendeeRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.attendeeRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.expectWritesFinished()

	res, err := f.svc.Ingest(context.Background(), csvUpload("Email Address", "a@x.com", "A@x.com", "b@x.com"))

	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, res.Total, res.Inserted+res.Updated+res.Unchanged+res.Failed+res.Merged)
}

func TestRosterService_IngestArchives(t *testing.T) {
	f := newFixture(t)
	f.cfg.Roster.ArchiveBucket = "uploads"
	f.cfg.Roster.SelectionMarkers = []string{" yes "}

	f.eventRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.attendeeRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.attendeeRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, attendee attendeeModel.Attendee) error {
			assert.Equal(t, attendeeModel.BrandSelections{{BrandName: "AcmeCo", Selected: true}}, attendee.SelectedBy)

			return nil
		})
	f.storage.EXPECT().UploadFileBytes(gomock.Any(), "uploads", "rosters/e1", gomock.Any(), "text/csv", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, fileName, _ string, _ []byte) (string, error) {
			assert.True(t, strings.HasSuffix(fileName, "-roster.csv"))

			return "s3://uploads/rosters/e1/" + fileName, nil
		})
	f.activity.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, activity kafka.Activity) {
			assert.Equal(t, kafka.ActivityRosterIngested, activity.Type)
			assert.Equal(t, "e1", activity.EventID)
		})
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	res, err := f.svc.Ingest(context.Background(), csvUpload("Email Address,AcmeCo", "a@x.com,YES please"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ArchiveURL, "s3://uploads/rosters/e1/"))
}
