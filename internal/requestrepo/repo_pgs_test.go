package requestrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/configpkg"
	"github.com/go-petr/money-transfer/pkg/randompkg"
)

var (
	testRepo         *RepoPGS
	testAccountRepo  *accountrepo.RepoPGS
	testTransferRepo *transferrepo.RepoPGS
)

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
	testAccountRepo = accountrepo.NewRepoPGS(testDB)
	testTransferRepo = transferrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func randomRequestParams(t *testing.T) domain.CreateRequestParams {
	source, err := testAccountRepo.Create(context.Background(),
		randompkg.MoneyAmountBetween(1_000, 10_000), "USD")
	require.NoError(t, err)

	target, err := testAccountRepo.Create(context.Background(),
		randompkg.MoneyAmountBetween(1_000, 10_000), "USD")
	require.NoError(t, err)

	return domain.CreateRequestParams{
		ID:              uuid.New(),
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Amount:          randompkg.MoneyAmountBetween(10, 100),
	}
}

func createRandomRequest(t *testing.T) domain.TransferRequest {
	arg := randomRequestParams(t)

	request, err := testRepo.Create(context.Background(), arg)
	require.NoError(t, err)
	require.NotEmpty(t, request)

	require.Equal(t, arg.ID, request.ID)
	require.Equal(t, arg.SourceAccountID, request.SourceAccountID)
	require.Equal(t, arg.TargetAccountID, request.TargetAccountID)
	require.True(t, arg.Amount.Equal(request.Amount))
	require.Equal(t, domain.RequestInProgress, request.Status)
	require.Empty(t, request.OutcomeCode)
	require.Nil(t, request.TransferID)
	require.NotZero(t, request.CreatedAt)

	return request
}

func TestCreate(t *testing.T) {
	createRandomRequest(t)
}

func TestCreateDuplicateKey(t *testing.T) {
	arg := randomRequestParams(t)

	_, err := testRepo.Create(context.Background(), arg)
	require.NoError(t, err)

	// The second insert with the same idempotency key loses the arbitration.
	request, err := testRepo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrRequestExists)
	require.Empty(t, request)
}

func TestGet(t *testing.T) {
	request := createRandomRequest(t)

	got, err := testRepo.Get(context.Background(), request.ID)
	require.NoError(t, err)

	require.Equal(t, request.ID, got.ID)
	require.Equal(t, request.Status, got.Status)
	require.True(t, request.Amount.Equal(got.Amount))
}

func TestGetNotFound(t *testing.T) {
	id := uuid.New()

	got, err := testRepo.Get(context.Background(), id)
	require.EqualError(t, err, domain.ErrRequestNotFound(id).Error())
	require.Empty(t, got)
}

func TestCompleteWithSuccessOutcome(t *testing.T) {
	request := createRandomRequest(t)

	transfer, err := testTransferRepo.Create(context.Background(), domain.CreateTransferParams{
		SourceAccountID: request.SourceAccountID,
		TargetAccountID: request.TargetAccountID,
		Amount:          request.Amount,
	}, "USD")
	require.NoError(t, err)

	completed, err := testRepo.Complete(context.Background(), domain.CompleteRequestParams{
		RequestID:   request.ID,
		OutcomeCode: domain.OutcomeOK,
		InfoMessage: "Transfer request completed successfully.",
		TransferID:  &transfer.ID,
	})
	require.NoError(t, err)

	require.Equal(t, domain.RequestCompleted, completed.Status)
	require.Equal(t, domain.OutcomeOK, completed.OutcomeCode)
	require.NotNil(t, completed.TransferID)
	require.Equal(t, transfer.ID, *completed.TransferID)
}

func TestCompleteWithFailureOutcome(t *testing.T) {
	request := createRandomRequest(t)

	completed, err := testRepo.Complete(context.Background(), domain.CompleteRequestParams{
		RequestID:   request.ID,
		OutcomeCode: "INSUFFICIENT_FUNDS",
		InfoMessage: "insufficient balance",
	})
	require.NoError(t, err)

	require.Equal(t, domain.RequestCompleted, completed.Status)
	require.Equal(t, "INSUFFICIENT_FUNDS", completed.OutcomeCode)
	require.Equal(t, "insufficient balance", completed.InfoMessage)
	require.Nil(t, completed.TransferID)
}

func TestCompleteOnlyOnce(t *testing.T) {
	request := createRandomRequest(t)

	arg := domain.CompleteRequestParams{
		RequestID:   request.ID,
		OutcomeCode: "SAME_ACCOUNT",
		InfoMessage: "same account",
	}

	_, err := testRepo.Complete(context.Background(), arg)
	require.NoError(t, err)

	// The conditional update refuses a second transition.
	completed, err := testRepo.Complete(context.Background(), arg)
	require.EqualError(t, err, domain.ErrInvalidRequestState(request.ID).Error())
	require.Empty(t, completed)
}
