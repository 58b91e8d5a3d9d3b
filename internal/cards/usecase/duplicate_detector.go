package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
)

// defaultScanConcurrency bounds the parallel decrypts of the duplicate scan.
const defaultScanConcurrency = 8

// duplicateDetectorService implements DuplicateDetector with a bounded
// parallel decrypt-and-compare scan over every non-deleted card.
type duplicateDetectorService struct {
	cardRepo    CardRepository
	vault       cryptoService.Vault
	concurrency int
	logger      *slog.Logger
}

// NewDuplicateDetector creates a new DuplicateDetector.
// A non-positive concurrency falls back to the default.
func NewDuplicateDetector(
	cardRepo CardRepository,
	vault cryptoService.Vault,
	concurrency int,
	logger *slog.Logger,
) DuplicateDetector {
	if concurrency <= 0 {
		concurrency = defaultScanConcurrency
	}

	return &duplicateDetectorService{
		cardRepo:    cardRepo,
		vault:       vault,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Exists scans every stored non-deleted card number for the candidate.
//
// The scan is O(n) in the number of stored cards: the randomized storage
// nonces make two seals of the same plaintext produce different ciphertexts,
// so equality can only be checked after opening each field. Records that fail
// to decrypt are logged and skipped rather than failing the whole scan. The scan is
// read-only and not synchronized against concurrent writes.
func (d *duplicateDetectorService) Exists(
	ctx context.Context,
	candidate string,
	excludeID uuid.UUID,
) (bool, uuid.UUID, error) {
	credentials, err := d.cardRepo.ListCardNumberCredentials(ctx)
	if err != nil {
		return false, uuid.Nil, err
	}

	var (
		mu      sync.Mutex
		found   bool
		matchID uuid.UUID
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, cred := range credentials {
		if cred.ID == excludeID {
			continue
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			mu.Lock()
			done := found
			mu.Unlock()
			if done {
				return nil
			}

			stored, err := d.vault.Open(cred.CardNumber)
			if err != nil {
				// A sealed field that no longer opens under the master key
				// points at tampering or a foreign key. Skip the record but
				// leave a trail; never log the ciphertext.
				if d.logger != nil {
					d.logger.Warn("card number failed to decrypt during duplicate scan",
						slog.String("card_id", cred.ID.String()),
						slog.Any("error", err),
					)
				}
				return nil
			}

			if stored == candidate {
				mu.Lock()
				if !found {
					found = true
					matchID = cred.ID
				}
				mu.Unlock()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return false, uuid.Nil, err
	}

	return found, matchID, nil
}
