package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"meetbook/infras/otel"
	"meetbook/infras/postgres"
	attendeeModel "meetbook/internal/domains/attendee/model"
	"meetbook/internal/domains/slot/model"
	gDto "meetbook/shared/dto"
	gRepo "meetbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

var (
	queryByCompany = fmt.Sprintf(`SELECT s.id, s.event_id, s.attendee_id, s.company, s.time_slot, s.completed,
	s.created_at, s.modified_at, s.created_by, s.modified_by,
	a.first_name AS attendee_first_name, a.last_name AS attendee_last_name, a.email AS attendee_email,
	a.company AS attendee_company, a.title AS attendee_title, a.phone AS attendee_phone, a.status AS attendee_status
FROM %s s
JOIN %s a ON a.id = s.attendee_id
WHERE s.event_id = :event_id AND LOWER(TRIM(s.company)) = LOWER(TRIM(:company))
ORDER BY s.time_slot ASC`, model.TableName, attendeeModel.TableName)

	queryCompanyCounts = fmt.Sprintf(`SELECT TRIM(company) AS company, COUNT(id) AS count
FROM %s
WHERE event_id = :event_id
GROUP BY TRIM(company)
ORDER BY count DESC, company ASC`, model.TableName)
)

type Slot interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Slot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Slot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Slot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
	GetByCompany(ctx context.Context, eventID, company string) ([]model.SlotDetail, error)
	CompanyCounts(ctx context.Context, eventID string) ([]model.CompanyCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Slot]
}

func New(db *postgres.Connection, otel otel.Otel) Slot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Slot](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) GetByCompany(ctx context.Context, eventID, company string) ([]model.SlotDetail, error) {
	slots := []model.SlotDetail{}

	err := r.Select(ctx, &slots, queryByCompany, map[string]any{
		model.FieldEventID: eventID,
		model.FieldCompany: company,
	})

	return slots, err //nolint:wrapcheck
}

func (r *repositoryImpl) CompanyCounts(ctx context.Context, eventID string) ([]model.CompanyCount, error) {
	counts := []model.CompanyCount{}

	err := r.Select(ctx, &counts, queryCompanyCounts, map[string]any{model.FieldEventID: eventID})

	return counts, err //nolint:wrapcheck
}
