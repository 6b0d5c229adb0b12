package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/models"
)

type mockIdentitySource struct {
	mock.Mock
}

func (m *mockIdentitySource) Current() *models.Identity {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Identity)
}

func (m *mockIdentitySource) AwardCoins(ctx context.Context, feature models.Feature, amount int) (*models.Identity, error) {
	args := m.Called(ctx, feature, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func TestLedger_ClaimAwardsOnce(t *testing.T) {
	source := new(mockIdentitySource)
	source.On("Current").Return(&models.Identity{TelegramID: "42", Coins: 10}).Once()
	source.On("AwardCoins", mock.Anything, models.FeatureAr, DefaultAmount).
		Return(&models.Identity{TelegramID: "42", Coins: 60, IsAr: true}, nil).Once()

	ledger := NewLedger(source)
	res, err := ledger.Claim(context.Background(), models.FeatureAr, DefaultAmount)
	require.NoError(t, err)
	assert.False(t, res.AlreadyClaimed)
	assert.Equal(t, 60, res.Coins)
	source.AssertExpectations(t)
}

func TestLedger_ClaimedFlagShortCircuitsNetwork(t *testing.T) {
	source := new(mockIdentitySource)
	source.On("Current").Return(&models.Identity{TelegramID: "42", Coins: 60, IsAr: true}).Once()

	ledger := NewLedger(source)
	res, err := ledger.Claim(context.Background(), models.FeatureAr, DefaultAmount)
	require.NoError(t, err)
	assert.True(t, res.AlreadyClaimed)
	assert.Equal(t, 60, res.Coins)
	source.AssertNotCalled(t, "AwardCoins", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_ClaimFailureIsRetryable(t *testing.T) {
	source := new(mockIdentitySource)
	source.On("Current").Return(&models.Identity{TelegramID: "42", Coins: 10}).Twice()
	source.On("AwardCoins", mock.Anything, models.FeatureQuiz, 23).
		Return(nil, apperrors.NewAwardError(apperrors.NewHTTPError(502, ""))).Once()
	source.On("AwardCoins", mock.Anything, models.FeatureQuiz, 23).
		Return(&models.Identity{TelegramID: "42", Coins: 33, IsQuiz: true}, nil).Once()

	ledger := NewLedger(source)

	_, err := ledger.Claim(context.Background(), models.FeatureQuiz, 23)
	assert.Equal(t, apperrors.ErrCodeAward, apperrors.CodeOf(err))

	res, err := ledger.Claim(context.Background(), models.FeatureQuiz, 23)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Coins)
	source.AssertExpectations(t)
}

func TestLedger_ClaimValidation(t *testing.T) {
	ledger := NewLedger(new(mockIdentitySource))

	_, err := ledger.Claim(context.Background(), "isBogus", 50)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	_, err = ledger.Claim(context.Background(), models.FeatureAr, -1)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestLedger_ClaimWithoutIdentity(t *testing.T) {
	source := new(mockIdentitySource)
	source.On("Current").Return(nil).Once()

	ledger := NewLedger(source)
	_, err := ledger.Claim(context.Background(), models.FeatureAr, DefaultAmount)
	assert.Equal(t, apperrors.ErrCodeMissingIdentity, apperrors.CodeOf(err))
}
