package access

import (
	"testing"

	"relief/internal/utils"
	"relief/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caller(role types.Role) *types.Caller {
	return &types.Caller{
		AccountID: "acct-1",
		Username:  "alice",
		Profile:   &types.Profile{ID: "prof-1", AccountID: "acct-1", Role: role},
	}
}

func orgAdmin(orgID *string) *types.Caller {
	c := caller(types.RoleOrganizationAdmin)
	c.OrganizationID = orgID
	return c
}

func centerAdmin(centerID *string) *types.Caller {
	c := caller(types.RoleCenterAdmin)
	c.CenterID = centerID
	return c
}

func staff() *types.Caller {
	return &types.Caller{AccountID: "acct-staff", Username: "ops", IsStaff: true}
}

func TestListRequests(t *testing.T) {
	tests := []struct {
		name    string
		caller  *types.Caller
		want    types.RequestScope
		wantErr types.ErrorKind
	}{
		{name: "staff sees everything", caller: staff(), want: types.RequestScope{All: true}},
		{name: "linked org admin", caller: orgAdmin(utils.StringPtr("org-1")), want: types.RequestScope{OrganizationID: utils.StringPtr("org-1")}},
		{name: "unlinked org admin sees nothing", caller: orgAdmin(nil), want: types.RequestScope{}},
		{name: "individual sees own", caller: caller(types.RoleIndividual), want: types.RequestScope{AccountID: utils.StringPtr("acct-1")}},
		{name: "center admin gets empty list", caller: centerAdmin(utils.StringPtr("c-1")), want: types.RequestScope{}},
		{name: "donor denied", caller: caller(types.RoleDonor), wantErr: types.KindPermission},
		{name: "missing profile denied", caller: &types.Caller{AccountID: "acct-9"}, wantErr: types.KindPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListRequests(tt.caller)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, types.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetrieveRequests(t *testing.T) {
	t.Run("org admin sees org and own account requests", func(t *testing.T) {
		got, err := RetrieveRequests(orgAdmin(utils.StringPtr("org-1")))
		require.NoError(t, err)
		assert.Equal(t, "org-1", *got.OrganizationID)
		assert.Equal(t, "acct-1", *got.AccountID)
		assert.Nil(t, got.CenterID)
	})

	t.Run("center admin sees assigned requests", func(t *testing.T) {
		got, err := RetrieveRequests(centerAdmin(utils.StringPtr("c-1")))
		require.NoError(t, err)
		assert.Equal(t, types.RequestScope{CenterID: utils.StringPtr("c-1")}, got)
	})

	t.Run("unlinked center admin sees nothing", func(t *testing.T) {
		got, err := RetrieveRequests(centerAdmin(nil))
		require.NoError(t, err)
		assert.True(t, got.Empty())
	})

	t.Run("donor denied", func(t *testing.T) {
		_, err := RetrieveRequests(caller(types.RoleDonor))
		assert.Equal(t, types.KindPermission, types.KindOf(err))
	})
}

func TestRequesterForCreate(t *testing.T) {
	t.Run("individual becomes requester account", func(t *testing.T) {
		got, err := RequesterForCreate(caller(types.RoleIndividual), &types.RequestInput{})
		require.NoError(t, err)
		assert.Equal(t, Requester{AccountID: utils.StringPtr("acct-1")}, got)
	})

	t.Run("org admin files for linked org", func(t *testing.T) {
		got, err := RequesterForCreate(orgAdmin(utils.StringPtr("org-1")), &types.RequestInput{})
		require.NoError(t, err)
		assert.Equal(t, Requester{OrganizationID: utils.StringPtr("org-1")}, got)
	})

	t.Run("unlinked org admin is a validation error", func(t *testing.T) {
		_, err := RequesterForCreate(orgAdmin(nil), &types.RequestInput{})
		assert.Equal(t, types.KindValidation, types.KindOf(err))
	})

	t.Run("requester fields in payload rejected", func(t *testing.T) {
		in := &types.RequestInput{RequesterPhoneNumber: utils.StringPtr("+254700000000")}
		_, err := RequesterForCreate(caller(types.RoleIndividual), in)
		assert.Equal(t, types.KindValidation, types.KindOf(err))
	})

	t.Run("blank phone number is not a requester", func(t *testing.T) {
		in := &types.RequestInput{RequesterPhoneNumber: utils.StringPtr("")}
		_, err := RequesterForCreate(caller(types.RoleIndividual), in)
		assert.NoError(t, err)
	})

	t.Run("center admin cannot create", func(t *testing.T) {
		_, err := RequesterForCreate(centerAdmin(utils.StringPtr("c-1")), &types.RequestInput{})
		assert.Equal(t, types.KindPermission, types.KindOf(err))
	})

	t.Run("staff passes payload requester through", func(t *testing.T) {
		in := &types.RequestInput{RequesterPhoneNumber: utils.StringPtr("+254700000000")}
		got, err := RequesterForCreate(staff(), in)
		require.NoError(t, err)
		assert.Equal(t, "+254700000000", *got.PhoneNumber)
	})

	t.Run("staff without payload requester uses their role", func(t *testing.T) {
		c := staff()
		c.Profile = &types.Profile{ID: "prof-staff", AccountID: "acct-staff", Role: types.RoleIndividual}
		got, err := RequesterForCreate(c, &types.RequestInput{})
		require.NoError(t, err)
		assert.Equal(t, Requester{AccountID: utils.StringPtr("acct-staff")}, got)

		c.Profile.Role = types.RoleOrganizationAdmin
		c.OrganizationID = utils.StringPtr("org-7")
		got, err = RequesterForCreate(c, &types.RequestInput{})
		require.NoError(t, err)
		assert.Equal(t, Requester{OrganizationID: utils.StringPtr("org-7")}, got)
	})

	t.Run("staff without profile or payload requester", func(t *testing.T) {
		_, err := RequesterForCreate(staff(), &types.RequestInput{})
		assert.ErrorIs(t, err, types.ErrProfileMissing)
	})
}

func TestRequestWritableFields(t *testing.T) {
	assigned := &types.ProductRequest{AssignedDistributionCenterID: utils.StringPtr("c-1"), RequesterAccountID: utils.StringPtr("acct-2")}
	own := &types.ProductRequest{RequesterAccountID: utils.StringPtr("acct-1")}

	f, err := RequestWritableFields(staff(), own)
	require.NoError(t, err)
	assert.Equal(t, types.FieldsAll, f)

	f, err = RequestWritableFields(centerAdmin(utils.StringPtr("c-1")), assigned)
	require.NoError(t, err)
	assert.True(t, f.Has(types.FieldStatus|types.FieldPickupDetails))
	assert.False(t, f.Has(types.FieldAssignedCenter))

	_, err = RequestWritableFields(centerAdmin(utils.StringPtr("c-2")), assigned)
	assert.Equal(t, types.KindPermission, types.KindOf(err))

	f, err = RequestWritableFields(caller(types.RoleIndividual), own)
	require.NoError(t, err)
	assert.Equal(t, types.FieldStatus, f)
}

func TestCanSetStatus(t *testing.T) {
	assert.NoError(t, CanSetStatus(caller(types.RoleIndividual), types.RequestStatusCancelled))
	assert.Error(t, CanSetStatus(caller(types.RoleIndividual), types.RequestStatusFulfilled))
	assert.NoError(t, CanSetStatus(centerAdmin(utils.StringPtr("c-1")), types.RequestStatusReady))
	assert.NoError(t, CanSetStatus(staff(), types.RequestStatusFulfilled))
}

func TestCanDeleteRequest(t *testing.T) {
	pending := &types.ProductRequest{RequesterAccountID: utils.StringPtr("acct-1"), Status: types.RequestStatusPending}
	ready := &types.ProductRequest{RequesterAccountID: utils.StringPtr("acct-1"), Status: types.RequestStatusReady}

	assert.NoError(t, CanDeleteRequest(caller(types.RoleIndividual), pending))
	assert.Error(t, CanDeleteRequest(caller(types.RoleIndividual), ready))
	assert.NoError(t, CanDeleteRequest(staff(), ready))
}

func TestListInventory(t *testing.T) {
	t.Run("staff may filter by center", func(t *testing.T) {
		got, err := ListInventory(staff(), utils.StringPtr("c-9"))
		require.NoError(t, err)
		assert.Equal(t, types.InventoryScope{CenterID: utils.StringPtr("c-9")}, got)
	})

	t.Run("staff without filter sees all", func(t *testing.T) {
		got, err := ListInventory(staff(), nil)
		require.NoError(t, err)
		assert.True(t, got.All)
	})

	t.Run("center admin filter parameter ignored", func(t *testing.T) {
		got, err := ListInventory(centerAdmin(utils.StringPtr("c-1")), utils.StringPtr("c-9"))
		require.NoError(t, err)
		assert.Equal(t, types.InventoryScope{CenterID: utils.StringPtr("c-1")}, got)
	})

	for _, r := range []types.Role{types.RoleIndividual, types.RoleOrganizationAdmin, types.RoleDonor} {
		t.Run(string(r)+" denied", func(t *testing.T) {
			_, err := ListInventory(caller(r), nil)
			assert.Equal(t, types.KindPermission, types.KindOf(err))
		})
	}
}

func TestCanWriteInventory(t *testing.T) {
	item := &types.InventoryItem{DistributionCenterID: "c-1"}

	assert.NoError(t, CanWriteInventory(staff(), item))
	assert.NoError(t, CanWriteInventory(centerAdmin(utils.StringPtr("c-1")), item))
	assert.Equal(t, types.KindPermission, types.KindOf(CanWriteInventory(centerAdmin(utils.StringPtr("c-2")), item)))
	assert.Equal(t, types.KindPermission, types.KindOf(CanWriteInventory(centerAdmin(nil), item)))
	assert.Equal(t, types.KindPermission, types.KindOf(CanWriteInventory(&types.Caller{AccountID: "x"}, item)))
}

func TestCanDonate(t *testing.T) {
	assert.NoError(t, CanDonate(caller(types.RoleDonor)))
	assert.NoError(t, CanDonate(staff()))
	assert.Error(t, CanDonate(caller(types.RoleIndividual)))
}
