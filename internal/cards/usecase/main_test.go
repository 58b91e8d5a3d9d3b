package usecase

import (
	"testing"

	"go.uber.org/goleak"
)

// The duplicate detector fans out across a bounded worker pool; every test in
// this package must leave no goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
