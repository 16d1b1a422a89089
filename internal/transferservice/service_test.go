package transferservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

type mocks struct {
	repo        *MockRepo
	tracker     *MockTracker
	strategy    *MockStrategy
	compensator *MockCompensator
	sink        *MockSink
	notified    chan struct{}
}

func newMocks(ctrl *gomock.Controller) *mocks {
	return &mocks{
		repo:        NewMockRepo(ctrl),
		tracker:     NewMockTracker(ctrl),
		strategy:    NewMockStrategy(ctrl),
		compensator: NewMockCompensator(ctrl),
		sink:        NewMockSink(ctrl),
		notified:    make(chan struct{}),
	}
}

// expectNotify arms the sink mock and returns only after waitNotify sees the
// publish, since notifications run on a detached goroutine.
func (m *mocks) expectNotify() {
	m.sink.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(context.Context, string) error {
			close(m.notified)
			return nil
		})
}

func (m *mocks) waitNotify(t *testing.T) {
	t.Helper()

	select {
	case <-m.notified:
	case <-time.After(time.Second):
		t.Fatal("expected a transfer notification")
	}
}

func TestTransfer(t *testing.T) {
	testCmd := domain.TransferCommand{
		RequestID:       uuid.New(),
		SourceAccountID: uuid.New(),
		TargetAccountID: uuid.New(),
		Amount:          decimal.RequireFromString("100"),
		Mode:            domain.ModePessimistic,
	}

	testCreateArg := domain.CreateRequestParams{
		ID:              testCmd.RequestID,
		SourceAccountID: testCmd.SourceAccountID,
		TargetAccountID: testCmd.TargetAccountID,
		Amount:          testCmd.Amount,
	}

	testTransferArg := domain.CreateTransferParams{
		SourceAccountID: testCmd.SourceAccountID,
		TargetAccountID: testCmd.TargetAccountID,
		Amount:          testCmd.Amount,
	}

	testRequest := domain.TransferRequest{
		ID:              testCmd.RequestID,
		SourceAccountID: testCmd.SourceAccountID,
		TargetAccountID: testCmd.TargetAccountID,
		Amount:          testCmd.Amount,
		Status:          domain.RequestInProgress,
	}

	testTransfer := domain.Transfer{
		ID:              uuid.New(),
		SourceAccountID: testCmd.SourceAccountID,
		TargetAccountID: testCmd.TargetAccountID,
		Amount:          testCmd.Amount,
		Currency:        "USD",
		Status:          domain.TransferFundsTransferred,
	}

	completedRequest := testRequest
	completedRequest.Status = domain.RequestCompleted
	completedRequest.OutcomeCode = domain.OutcomeOK
	completedRequest.TransferID = &testTransfer.ID

	insufficientErr := domain.ErrInsufficientBalance(testCmd.SourceAccountID, testCmd.Amount)

	testCases := []struct {
		name          string
		cmd           domain.TransferCommand
		buildStubs    func(t *testing.T, m *mocks)
		checkResponse func(t *testing.T, m *mocks, res domain.Transfer, err error)
	}{
		{
			name: "First submission succeeds and notifies",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Eq(testRequest), gomock.Eq(testCreateArg)).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Eq(testTransferArg)).
					Times(1).
					Return(testTransfer, nil)
				m.tracker.EXPECT().CompleteWithSuccess(gomock.Any(), gomock.Eq(testRequest), gomock.Eq(testTransfer)).
					Times(1).
					Return(completedRequest, nil)
				m.expectNotify()
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransfer, res)
				m.waitNotify(t)
			},
		},
		{
			name: "Duplicate replays the recorded outcome without executing",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(completedRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Eq(completedRequest), gomock.Eq(testCreateArg)).
					Times(1).
					Return(nil)
				m.tracker.EXPECT().Resolve(gomock.Any(), gomock.Eq(completedRequest)).
					Times(1).
					Return(testTransfer, nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Any()).Times(0)
				m.sink.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransfer, res)
			},
		},
		{
			name: "Payload mismatch",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Eq(testRequest), gomock.Eq(testCreateArg)).
					Times(1).
					Return(domain.ErrRequestConflict(testRequest.ID))
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Any()).Times(0)
				m.tracker.EXPECT().CompleteWithError(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrRequestConflict(testRequest.ID).Error())
			},
		},
		{
			name: "Same account is recorded and returned",
			cmd: domain.TransferCommand{
				RequestID:       testCmd.RequestID,
				SourceAccountID: testCmd.SourceAccountID,
				TargetAccountID: testCmd.SourceAccountID,
				Amount:          testCmd.Amount,
				Mode:            domain.ModePessimistic,
			},
			buildStubs: func(t *testing.T, m *mocks) {
				sameAccountErr := domain.ErrSameAccount(testCmd.SourceAccountID)

				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.tracker.EXPECT().CompleteWithError(gomock.Any(), gomock.Eq(testRequest),
					gomock.Eq(errorspkg.CodeSameAccount), gomock.Eq(sameAccountErr.Error())).
					Times(1).
					Return(completedRequest, nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSameAccount(testCmd.SourceAccountID).Error())
			},
		},
		{
			name: "Business failure is recorded before returning",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Eq(testTransferArg)).
					Times(1).
					Return(domain.Transfer{}, insufficientErr)
				m.tracker.EXPECT().CompleteWithError(gomock.Any(), gomock.Eq(testRequest),
					gomock.Eq(errorspkg.CodeInsufficientFunds), gomock.Eq(insufficientErr.Error())).
					Times(1).
					Return(completedRequest, nil)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, insufficientErr.Error())
			},
		},
		{
			name: "Transient conflict leaves the request in progress",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Eq(testTransferArg)).
					Times(1).
					Return(domain.Transfer{}, domain.ErrConcurrencyConflict)
				m.tracker.EXPECT().CompleteWithError(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrConcurrencyConflict.Error())
			},
		},
		{
			name: "Internal failure leaves the request in progress",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Eq(testTransferArg)).
					Times(1).
					Return(domain.Transfer{}, errorspkg.ErrInternal)
				m.tracker.EXPECT().CompleteWithError(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "Lost completion race schedules a refund and replays the winner",
			cmd:  testCmd,
			buildStubs: func(t *testing.T, m *mocks) {
				winnerTransfer := domain.Transfer{
					ID:              uuid.New(),
					SourceAccountID: testCmd.SourceAccountID,
					TargetAccountID: testCmd.TargetAccountID,
					Amount:          testCmd.Amount,
					Currency:        "USD",
					Status:          domain.TransferFundsTransferred,
				}
				winnerRequest := completedRequest
				winnerRequest.TransferID = &winnerTransfer.ID

				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Eq(testCreateArg)).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Eq(testTransferArg)).
					Times(1).
					Return(testTransfer, nil)
				m.tracker.EXPECT().CompleteWithSuccess(gomock.Any(), gomock.Eq(testRequest), gomock.Eq(testTransfer)).
					Times(1).
					Return(domain.TransferRequest{}, domain.ErrInvalidRequestState(testRequest.ID))
				m.compensator.EXPECT().Enqueue(gomock.Any(), gomock.Eq(testTransfer.ID)).Times(1)
				m.tracker.EXPECT().Get(gomock.Any(), gomock.Eq(testRequest.ID)).
					Times(1).
					Return(winnerRequest, nil)
				m.tracker.EXPECT().Resolve(gomock.Any(), gomock.Eq(winnerRequest)).
					Times(1).
					Return(winnerTransfer, nil)
				m.sink.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.NoError(t, err)
				require.NotEqual(t, testTransfer.ID, res.ID)
			},
		},
		{
			name: "Unknown mode",
			cmd: domain.TransferCommand{
				RequestID:       testCmd.RequestID,
				SourceAccountID: testCmd.SourceAccountID,
				TargetAccountID: testCmd.TargetAccountID,
				Amount:          testCmd.Amount,
				Mode:            domain.ConcurrencyMode("EVENTUAL"),
			},
			buildStubs: func(t *testing.T, m *mocks) {
				m.tracker.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).
					Times(1).
					Return(testRequest, nil)
				m.tracker.EXPECT().ValidatePayload(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
				m.strategy.EXPECT().AcquireAndTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, m *mocks, res domain.Transfer, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			service := New(m.repo, m.tracker,
				map[domain.ConcurrencyMode]Strategy{domain.ModePessimistic: m.strategy},
				m.compensator, m.sink)

			tc.buildStubs(t, m)

			res, err := service.Transfer(context.Background(), tc.cmd)
			tc.checkResponse(t, m, res, err)
		})
	}
}

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	service := New(m.repo, m.tracker, nil, m.compensator, m.sink)

	testTransfer := domain.Transfer{ID: uuid.New()}

	m.repo.EXPECT().Get(gomock.Any(), gomock.Eq(testTransfer.ID)).
		Times(1).
		Return(testTransfer, nil)

	res, err := service.Get(context.Background(), testTransfer.ID)
	require.NoError(t, err)
	require.Equal(t, testTransfer, res)
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	service := New(m.repo, m.tracker, nil, m.compensator, m.sink)

	accountID := uuid.New()
	transfers := []domain.Transfer{{ID: uuid.New()}, {ID: uuid.New()}}

	m.repo.EXPECT().List(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(5)), gomock.Eq(int32(0))).
		Times(1).
		Return(transfers, nil)

	res, err := service.List(context.Background(), accountID, 5, 0)
	require.NoError(t, err)
	require.Equal(t, transfers, res)
}
