//go:build integration

package app

import (
	"context"
	"os"
	"testing"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/testutil"
)

// TestMain sets up shared MongoDB and Redis containers for all app integration tests in this package.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMainWithContainers(context.Background(), m))
}
