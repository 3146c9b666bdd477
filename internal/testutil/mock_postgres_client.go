package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

// MockPostgresClient satisfies postgres.IClient without a real database.
// Functions handed to WithTx run directly; there is no rollback, so tests
// must not rely on transactional undo.
type MockPostgresClient struct {
	logger *logger.Logger
}

func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{logger: logger}
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
