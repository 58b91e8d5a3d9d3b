package commands

import (
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// and prints it as the environment variable the server expects. Key material
// is zeroed from memory after encoding.
//
// Security: Store the output in a secrets manager, never in source control.
// Losing the master key makes every stored card unreadable.
func RunCreateMasterKey() error {
	masterKey, err := cryptoService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(masterKey)
	cryptoDomain.Zero(masterKey)

	fmt.Println("# Master Key Configuration")
	fmt.Println("# Copy this environment variable to your .env file or secrets manager")
	fmt.Println()
	fmt.Printf("MASTER_ENCRYPTION_KEY=\"%s\"\n", encodedKey)

	return nil
}
