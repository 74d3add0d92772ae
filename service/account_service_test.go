// file: service/account_service_test.go

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-card-ledger/audit"
	"go-card-ledger/card"
	"go-card-ledger/repository"
)

func TestAccountService_OpenAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		registry := repository.NewAccountRegistry()
		accountService := NewAccountService(registry, audit.Nop{})

		account, err := accountService.OpenAccount("Grace Hopper", dec("50000"), "mySecretPassword123", "mySecretPassword123")

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.NotEmpty(t, account.ID)
		assert.Equal(t, "Grace Hopper", account.OwnerName)
		assert.True(t, dec("50000").Equal(account.Balance))

		// The password is stored only as a digest.
		assert.NotEqual(t, "mySecretPassword123", account.PasswordHash)
		assert.True(t, CheckPasswordHash("mySecretPassword123", account.PasswordHash))

		// The issued card is registered and carries a valid checksum.
		assert.True(t, card.ValidChecksum(account.Card.Number))
		registered, ok := registry.Lookup(account.Card.Number)
		require.True(t, ok)
		assert.Same(t, account, registered)
	})

	t.Run("password mismatch creates nothing", func(t *testing.T) {
		registry := repository.NewAccountRegistry()
		accountService := NewAccountService(registry, audit.Nop{})

		account, err := accountService.OpenAccount("Grace Hopper", dec("50000"), "mySecretPassword123", "somethingElse")

		assert.Equal(t, ErrPasswordMismatch, err)
		assert.Nil(t, account)
		// No orphaned card issuance: the registry stays empty.
		assert.Empty(t, registry.All())
	})

	t.Run("negative initial balance", func(t *testing.T) {
		registry := repository.NewAccountRegistry()
		accountService := NewAccountService(registry, audit.Nop{})

		_, err := accountService.OpenAccount("Grace Hopper", dec("-1"), "mySecretPassword123", "mySecretPassword123")

		assert.Equal(t, ErrInvalidAmount, err)
		assert.Empty(t, registry.All())
	})

	t.Run("initial balance below the floor is allowed", func(t *testing.T) {
		registry := repository.NewAccountRegistry()
		accountService := NewAccountService(registry, audit.Nop{})

		account, err := accountService.OpenAccount("Grace Hopper", dec("100"), "mySecretPassword123", "mySecretPassword123")

		require.NoError(t, err)
		assert.True(t, dec("100").Equal(account.Balance))
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	registry := repository.NewAccountRegistry()
	accountService := NewAccountService(registry, audit.Nop{})

	opened, err := accountService.OpenAccount("Grace Hopper", dec("50000"), "mySecretPassword123", "mySecretPassword123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		account, err := accountService.Authenticate(opened.Card.Number, "mySecretPassword123")
		require.NoError(t, err)
		assert.Same(t, opened, account)
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := accountService.Authenticate("6104330000000000", "mySecretPassword123")
		assert.Equal(t, ErrAccountNotFound, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := accountService.Authenticate(opened.Card.Number, "somethingElse")
		assert.Equal(t, ErrIncorrectPassword, err)
	})
}
