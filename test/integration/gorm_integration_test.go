package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"
	"joslyn-advocacy-be/internal/repository/unitofwork"
	"joslyn-advocacy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChildRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentSpanRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	t.Run("Check Child Repository", func(t *testing.T) {
		count, err := uow.ChildRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Child count: %d", count)
	})

	t.Run("Check Document Span Repository", func(t *testing.T) {
		count, err := uow.DocumentSpanRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentSpan count: %d", count)
	})

	t.Run("Ingest And Search Lexically", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now()

		child := &entity.Child{
			Id:        uuid.New(),
			UserId:    uuid.New(),
			Name:      "Integration Test Child",
			CreatedAt: now,
		}
		require.NoError(t, uow.ChildRepository().Create(ctx, child))

		document := &entity.Document{
			Id:        uuid.New(),
			ChildId:   child.Id,
			Name:      "Integration IEP",
			DocType:   "iep",
			Tags:      []string{"iep"},
			CreatedAt: now,
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, document))

		span := &entity.DocumentSpan{
			Id:         uuid.New(),
			DocumentId: document.Id,
			DocName:    document.Name,
			Page:       3,
			Content:    "The student will receive 120 minutes of speech therapy weekly.",
			CreatedAt:  now,
		}
		require.NoError(t, uow.DocumentSpanRepository().Create(ctx, span))

		results, err := uow.DocumentSpanRepository().SearchLexical(ctx, child.Id, "speech therapy minutes", 10)
		assert.NoError(t, err)
		if assert.NotEmpty(t, results) {
			assert.Equal(t, span.Id, results[0].Span.Id)
			assert.Equal(t, document.Name, results[0].Span.DocName)
			assert.Greater(t, results[0].Score, 0.0)
		}

		tags, err := uow.DocumentRepository().TagsByChildId(ctx, child.Id)
		assert.NoError(t, err)
		assert.Equal(t, []string{"iep"}, tags[document.Id])

		// Cleanup
		assert.NoError(t, uow.DocumentSpanRepository().DeleteByDocumentId(ctx, document.Id))
		assert.NoError(t, uow.DocumentRepository().Delete(ctx, document.Id))
		assert.NoError(t, uow.ChildRepository().Delete(ctx, child.Id))
	})

	t.Run("Empty Corpus Searches Return Nothing", func(t *testing.T) {
		ctx := context.Background()
		unknownChild := uuid.New()

		results, err := uow.DocumentSpanRepository().SearchLexical(ctx, unknownChild, "anything at all", 10)
		assert.NoError(t, err)
		assert.Empty(t, results)

		spans, err := uow.DocumentSpanRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: uuid.New()})
		assert.NoError(t, err)
		assert.Empty(t, spans)
	})
}
