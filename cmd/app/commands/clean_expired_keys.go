package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ticketops/cardvault/internal/app"
	"github.com/ticketops/cardvault/internal/config"
)

// RunCleanExpiredKeys deletes ephemeral encryption keys whose validity window
// ended more than retention ago. Expired keys are useless ciphertext but
// deleting them keeps the table small; the operation is safe to run from cron.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredKeys(ctx context.Context, retention time.Duration) error {
	if retention < 0 {
		return fmt.Errorf("retention must not be negative, got: %s", retention)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning expired encryption keys",
		slog.Duration("retention", retention),
	)

	defer closeContainer(container, logger)

	keyVaultUseCase, err := container.KeyVaultUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize key vault use case: %w", err)
	}

	count, err := keyVaultUseCase.CleanExpired(ctx, retention)
	if err != nil {
		return fmt.Errorf("failed to clean expired keys: %w", err)
	}

	fmt.Printf("Deleted %d expired encryption keys\n", count)

	logger.Info("cleanup completed", slog.Int64("count", count))
	return nil
}
