package accounts

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

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) SignUp(ctx context.Context, username, email, password string) (string, error) {
	args := m.Called(ctx, username, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockIdentity) DeleteUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateWithProfile(ctx context.Context, account *types.Account, profile *types.Profile) error {
	return m.Called(ctx, account, profile).Error(0)
}

func (m *mockRepo) UpdateProfile(ctx context.Context, profileID string, update *types.ProfileUpdate) (*types.Profile, error) {
	args := m.Called(ctx, profileID, update)
	p, _ := args.Get(0).(*types.Profile)
	return p, args.Error(1)
}

func newRegistrar() (*Registrar, *mockIdentity, *mockRepo) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	idp := new(mockIdentity)
	repo := new(mockRepo)
	return NewRegistrar(logger, idp, repo), idp, repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account then individual profile", func(t *testing.T) {
		r, idp, repo := newRegistrar()
		idp.On("SignUp", ctx, "amina", "amina@example.org", "pw123456").Return("sub-1", nil)
		repo.On("CreateWithProfile", ctx,
			mock.MatchedBy(func(a *types.Account) bool { return a.ID == "sub-1" && a.Username == "amina" }),
			mock.MatchedBy(func(p *types.Profile) bool { return p.Role == types.RoleIndividual }),
		).Return(nil)

		account, profile, err := r.Register(ctx, &types.RegisterInput{Username: " amina ", Email: "amina@example.org", Password: "pw123456"})
		require.NoError(t, err)
		assert.Equal(t, "sub-1", account.ID)
		assert.Equal(t, types.RoleIndividual, profile.Role)
		idp.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("donor may self select", func(t *testing.T) {
		r, idp, repo := newRegistrar()
		idp.On("SignUp", ctx, "dan", "dan@example.org", "pw123456").Return("sub-2", nil)
		repo.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(nil)

		_, profile, err := r.Register(ctx, &types.RegisterInput{Username: "dan", Email: "dan@example.org", Password: "pw123456", Role: types.RoleDonor})
		require.NoError(t, err)
		assert.Equal(t, types.RoleDonor, profile.Role)
	})

	t.Run("admin roles are not self assignable", func(t *testing.T) {
		r, idp, _ := newRegistrar()
		_, _, err := r.Register(ctx, &types.RegisterInput{Username: "x", Email: "x@example.org", Password: "pw123456", Role: types.RoleCenterAdmin})
		assert.Equal(t, types.KindValidation, types.KindOf(err))
		idp.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		r, idp, repo := newRegistrar()
		idp.On("SignUp", ctx, "amina", "amina@example.org", "pw123456").Return("sub-1", nil)
		idp.On("DeleteUser", ctx, "amina").Return(nil)
		repo.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(errors.New("conn reset"))

		_, _, err := r.Register(ctx, &types.RegisterInput{Username: "amina", Email: "amina@example.org", Password: "pw123456"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to complete registration")
		idp.AssertCalled(t, "DeleteUser", ctx, "amina")
	})

	t.Run("retry succeeds after store failure", func(t *testing.T) {
		r, idp, repo := newRegistrar()
		in := &types.RegisterInput{Username: "amina", Email: "amina@example.org", Password: "pw123456"}

		idp.On("SignUp", ctx, "amina", "amina@example.org", "pw123456").Return("sub-1", nil).Once()
		repo.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(errors.New("conn reset")).Once()
		idp.On("DeleteUser", ctx, "amina").Return(nil).Once()

		_, _, err := r.Register(ctx, in)
		require.Error(t, err)

		idp.On("SignUp", ctx, "amina", "amina@example.org", "pw123456").Return("sub-2", nil).Once()
		repo.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		account, _, err := r.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "sub-2", account.ID)
		idp.AssertNumberOfCalls(t, "DeleteUser", 1)
		idp.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("failed rollback keeps the store error", func(t *testing.T) {
		r, idp, repo := newRegistrar()
		storeErr := errors.New("conn reset")
		idp.On("SignUp", ctx, "amina", "amina@example.org", "pw123456").Return("sub-1", nil)
		idp.On("DeleteUser", ctx, "amina").Return(errors.New("throttled"))
		repo.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(storeErr)

		_, _, err := r.Register(ctx, &types.RegisterInput{Username: "amina", Email: "amina@example.org", Password: "pw123456"})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	admin := types.RoleCenterAdmin
	bogus := types.Role("root")

	r, _, repo := newRegistrar()
	repo.On("UpdateProfile", ctx, "prof-1", mock.Anything).Return(&types.Profile{ID: "prof-1", Role: admin}, nil)

	staff := &types.Caller{AccountID: "acct-staff", IsStaff: true}
	got, err := r.UpdateProfile(ctx, staff, "prof-1", &types.ProfileUpdate{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, admin, got.Role)

	_, err = r.UpdateProfile(ctx, staff, "prof-1", &types.ProfileUpdate{Role: &bogus})
	assert.Equal(t, types.KindValidation, types.KindOf(err))

	individual := &types.Caller{AccountID: "acct-u", Profile: &types.Profile{Role: types.RoleIndividual}}
	_, err = r.UpdateProfile(ctx, individual, "prof-1", &types.ProfileUpdate{Role: &admin})
	assert.Equal(t, types.KindPermission, types.KindOf(err))

	repo.AssertNumberOfCalls(t, "UpdateProfile", 1)
}
