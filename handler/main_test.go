package handler

import (
	"os"
	"testing"

	"go-card-ledger/config"
	"go-card-ledger/logger"
)

// TestMain sets up the shared test environment for the handler package.
func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "handler-test-secret"

	os.Exit(m.Run())
}
