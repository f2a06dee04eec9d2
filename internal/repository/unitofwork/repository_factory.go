package unitofwork

import "context"

// RepositoryFactory mints a fresh UnitOfWork per request scope.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
