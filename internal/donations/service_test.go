package donations

import (
	"context"
	"errors"
	"io"
	"testing"

	"relief/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Donations(ctx context.Context, accountID string) ([]*types.Donation, error) {
	args := m.Called(ctx, accountID)
	out, _ := args.Get(0).([]*types.Donation)
	return out, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, donation *types.Donation) error {
	err := m.Called(ctx, donation).Error(0)
	if err == nil {
		donation.ID = "don-1"
	}
	return err
}

func (m *mockRepo) SetCheckout(ctx context.Context, donationID, sessionID, url string) error {
	return m.Called(ctx, donationID, sessionID, url).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, donationID string) error {
	return m.Called(ctx, donationID).Error(0)
}

type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) CreateSession(ctx context.Context, donation *types.Donation) (string, string, error) {
	args := m.Called(ctx, donation)
	return args.String(0), args.String(1), args.Error(2)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func donor() *types.Caller {
	return &types.Caller{AccountID: "acct-d", Profile: &types.Profile{Role: types.RoleDonor}}
}

func TestCreateDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("donor starts checkout", func(t *testing.T) {
		repo, checkout := new(mockRepo), new(mockCheckout)
		s := New(quietLogger(), repo, checkout, "USD")

		repo.On("Create", ctx, mock.MatchedBy(func(d *types.Donation) bool {
			return d.AccountID == "acct-d" && d.Currency == "usd" && d.Status == types.DonationStatusPending
		})).Return(nil)
		checkout.On("CreateSession", ctx, mock.Anything).Return("cs_1", "https://checkout.stripe.com/c/cs_1", nil)
		repo.On("SetCheckout", ctx, "don-1", "cs_1", "https://checkout.stripe.com/c/cs_1").Return(nil)

		got, err := s.Create(ctx, donor(), &types.CreateDonationInput{AmountCents: 2500})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/c/cs_1", got.CheckoutURL)
		repo.AssertExpectations(t)
		checkout.AssertExpectations(t)
	})

	t.Run("individual cannot donate", func(t *testing.T) {
		repo, checkout := new(mockRepo), new(mockCheckout)
		s := New(quietLogger(), repo, checkout, "usd")

		individual := &types.Caller{AccountID: "acct-u", Profile: &types.Profile{Role: types.RoleIndividual}}
		_, err := s.Create(ctx, individual, &types.CreateDonationInput{AmountCents: 2500})
		assert.Equal(t, types.KindPermission, types.KindOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("checkout failure", func(t *testing.T) {
		repo, checkout := new(mockRepo), new(mockCheckout)
		s := New(quietLogger(), repo, checkout, "usd")

		repo.On("Create", ctx, mock.Anything).Return(nil)
		checkout.On("CreateSession", ctx, mock.Anything).Return("", "", errors.New("card network down"))
		repo.On("Delete", ctx, "don-1").Return(nil)

		_, err := s.Create(ctx, donor(), &types.CreateDonationInput{AmountCents: 100})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SetCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertCalled(t, "Delete", ctx, "don-1")
	})

	t.Run("checkout failure with failed cleanup keeps the checkout error", func(t *testing.T) {
		repo, checkout := new(mockRepo), new(mockCheckout)
		s := New(quietLogger(), repo, checkout, "usd")

		checkoutErr := errors.New("card network down")
		repo.On("Create", ctx, mock.Anything).Return(nil)
		checkout.On("CreateSession", ctx, mock.Anything).Return("", "", checkoutErr)
		repo.On("Delete", ctx, "don-1").Return(errors.New("conn reset"))

		_, err := s.Create(ctx, donor(), &types.CreateDonationInput{AmountCents: 100})
		assert.ErrorIs(t, err, checkoutErr)
		repo.AssertExpectations(t)
	})

	t.Run("disabled without checkout", func(t *testing.T) {
		s := New(quietLogger(), new(mockRepo), nil, "usd")
		_, err := s.Create(ctx, donor(), &types.CreateDonationInput{AmountCents: 100})
		assert.Equal(t, types.KindValidation, types.KindOf(err))
	})
}
