package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"meetbook/infras/otel"
	"meetbook/infras/postgres"
	"meetbook/internal/domains/partnerrequest/model"
	gDto "meetbook/shared/dto"
	gRepo "meetbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

type PartnerRequest interface {
	Insert(ctx context.Context, model model.PartnerRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PartnerRequest, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.PartnerRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PartnerRequest, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.PartnerRequest]
}

func New(db *postgres.Connection, otel otel.Otel) PartnerRequest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PartnerRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
