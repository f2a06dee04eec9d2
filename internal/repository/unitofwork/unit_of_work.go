package unitofwork

import (
	"context"

	"joslyn-advocacy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChildRepository() contract.ChildRepository
	DocumentRepository() contract.DocumentRepository
	DocumentSpanRepository() contract.DocumentSpanRepository
}
