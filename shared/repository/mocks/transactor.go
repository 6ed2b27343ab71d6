package mocks

import (
	"context"
	"meetbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Transactor runs the callback with a nil transaction and records the outcome.
type Transactor struct {
	Calls      int
	RolledBack int
	Committed  int
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

var _ repository.Transactor = (*Transactor)(nil)

// WithTx implements repository.Transactor.
func (t *Transactor) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	t.Calls++

	if err := fn(nil); err != nil {
		t.RolledBack++

		return err
	}

	t.Committed++

	return nil
}
