package accountrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/configpkg"
	"github.com/go-petr/money-transfer/pkg/randompkg"
)

var testRepo *RepoPGS

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomAccount(t *testing.T) domain.Account {
	testBalance := randompkg.MoneyAmountBetween(1_000, 10_000)
	testCurrency := randompkg.Currency()

	account, err := testRepo.Create(context.Background(), testBalance, testCurrency)
	require.NoError(t, err)
	require.NotEmpty(t, account)

	require.True(t, testBalance.Equal(account.Balance))
	require.Equal(t, testCurrency, account.Currency)
	require.NotEqual(t, uuid.Nil, account.ID)
	require.NotZero(t, account.CreatedAt)

	return account
}

func TestCreate(t *testing.T) {
	createRandomAccount(t)
}

func TestCreateNegativeBalance(t *testing.T) {
	account, err := testRepo.Create(context.Background(), decimal.RequireFromString("-1"), "USD")
	require.EqualError(t, err, domain.ErrInvalidAmount.Error())
	require.Empty(t, account)
}

func TestGet(t *testing.T) {
	account := createRandomAccount(t)

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)

	require.Equal(t, account.ID, got.ID)
	require.True(t, account.Balance.Equal(got.Balance))
	require.Equal(t, account.Currency, got.Currency)
	require.Equal(t, account.Version, got.Version)
}

func TestGetNotFound(t *testing.T) {
	id := uuid.New()

	got, err := testRepo.Get(context.Background(), id)
	require.EqualError(t, err, domain.ErrAccountNotFound(id).Error())
	require.Empty(t, got)
}

func TestGetForUpdate(t *testing.T) {
	account := createRandomAccount(t)

	got, err := testRepo.GetForUpdate(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account.ID, got.ID)
}

func TestSetBalance(t *testing.T) {
	account := createRandomAccount(t)
	newBalance := account.Balance.Add(decimal.RequireFromString("50"))

	updated, err := testRepo.SetBalance(context.Background(), account.ID, newBalance)
	require.NoError(t, err)

	require.True(t, newBalance.Equal(updated.Balance))
	require.Equal(t, account.Version+1, updated.Version)
}

func TestSetBalanceNegative(t *testing.T) {
	account := createRandomAccount(t)

	updated, err := testRepo.SetBalance(context.Background(), account.ID, decimal.RequireFromString("-1"))
	require.EqualError(t, err, domain.ErrInsufficientBalance(account.ID, decimal.RequireFromString("-1")).Error())
	require.Empty(t, updated)
}

func TestSetBalanceVersioned(t *testing.T) {
	account := createRandomAccount(t)
	newBalance := account.Balance.Add(decimal.RequireFromString("25"))

	updated, err := testRepo.SetBalanceVersioned(context.Background(), account.ID, newBalance, account.Version)
	require.NoError(t, err)

	require.True(t, newBalance.Equal(updated.Balance))
	require.Equal(t, account.Version+1, updated.Version)
}

func TestSetBalanceVersionedStale(t *testing.T) {
	account := createRandomAccount(t)
	newBalance := account.Balance.Add(decimal.RequireFromString("25"))

	// First write bumps the version, making the original version stale.
	_, err := testRepo.SetBalance(context.Background(), account.ID, newBalance)
	require.NoError(t, err)

	updated, err := testRepo.SetBalanceVersioned(context.Background(), account.ID, newBalance, account.Version)
	require.EqualError(t, err, domain.ErrVersionConflict.Error())
	require.Empty(t, updated)
}

func TestList(t *testing.T) {
	for i := 0; i < 5; i++ {
		createRandomAccount(t)
	}

	accounts, err := testRepo.List(context.Background(), 5, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 5)

	for _, account := range accounts {
		require.NotEmpty(t, account)
	}
}
