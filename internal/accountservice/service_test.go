package accountservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/currencypkg"
)

func TestCreate(t *testing.T) {
	testBalance := decimal.RequireFromString("1000")
	testAccount := domain.Account{
		ID:       uuid.New(),
		Balance:  testBalance,
		Currency: currencypkg.USD,
	}

	testCases := []struct {
		name          string
		balance       decimal.Decimal
		currency      string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.Account, err error)
	}{
		{
			name:     "OK",
			balance:  testBalance,
			currency: currencypkg.USD,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Eq(testBalance), gomock.Eq(currencypkg.USD)).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name:     "Unsupported currency",
			balance:  testBalance,
			currency: "XYZ",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrUnsupportedCurrency("XYZ").Error())
			},
		},
		{
			name:     "Negative opening balance",
			balance:  decimal.RequireFromString("-1"),
			currency: currencypkg.USD,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			tc.checkResponse(service.Create(context.Background(), tc.balance, tc.currency))
		})
	}
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	accounts := []domain.Account{{ID: uuid.New()}, {ID: uuid.New()}}

	repo.EXPECT().List(gomock.Any(), gomock.Eq(int32(10)), gomock.Eq(int32(10))).
		Times(1).
		Return(accounts, nil)

	res, err := service.List(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Equal(t, accounts, res)
}
