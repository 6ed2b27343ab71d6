package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"meetbook/infras/otel"
	"meetbook/infras/postgres"
	"meetbook/internal/domains/attendee/model"
	gDto "meetbook/shared/dto"
	gRepo "meetbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Attendee interface {
	Insert(ctx context.Context, model model.Attendee) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Attendee, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Attendee, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Attendee]
}

func New(db *postgres.Connection, otel otel.Otel) Attendee {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Attendee](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
