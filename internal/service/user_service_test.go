package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

func TestCreateAdminRequiresCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.Create(testCtx, CreateUserInput{
		Email: "chief@example.com",
		Role:  entity.RoleAdmin,
	})
	require.ErrorIs(t, err, apperror.ErrMissingCredential)

	_, err = svc.Create(testCtx, CreateUserInput{
		Email:    "chief@example.com",
		Username: "chief",
		Role:     entity.RoleAdmin,
	})
	require.ErrorIs(t, err, apperror.ErrMissingCredential)

	admin, err := svc.Create(testCtx, CreateUserInput{
		Email:    "chief@example.com",
		Username: "chief",
		Password: "hunter2hunter2",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)
	require.True(t, admin.IsStaff)
	require.False(t, admin.IsSuperuser)
}

func TestCreateDerivesStaffFromRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	for _, tc := range []struct {
		role  entity.Role
		staff bool
	}{
		{entity.RoleUser, false},
		{entity.RoleModerator, false},
	} {
		user, err := svc.Create(testCtx, CreateUserInput{
			Email:    string(tc.role) + "@example.com",
			Username: string(tc.role),
			Role:     tc.role,
		})
		require.NoError(t, err)
		require.Equal(t, tc.staff, user.IsStaff)

		var stored entity.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		require.Equal(t, tc.staff, stored.IsStaff)
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	user, err := svc.Create(testCtx, CreateUserInput{Email: "  Reader@Example.COM "})
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", user.Email)
}

func TestCreateSuperuserForcesAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.CreateSuperuser(testCtx, "root@example.com", "", "secret")
	require.ErrorIs(t, err, apperror.ErrMissingCredential)
	_, err = svc.CreateSuperuser(testCtx, "root@example.com", "root", "")
	require.ErrorIs(t, err, apperror.ErrMissingCredential)

	root, err := svc.CreateSuperuser(testCtx, "root@example.com", "root", "secret")
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, root.Role)
	require.True(t, root.IsStaff)
	require.True(t, root.IsSuperuser)
}

func TestRoleGrantPrivilegeOrdering(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewUserService(users)

	admin := seedUser(t, db, "admin", entity.RoleAdmin)
	moderator := seedUser(t, db, "moderator", entity.RoleModerator)
	user := seedUser(t, db, "plain", entity.RoleUser)
	target := seedUser(t, db, "target", entity.RoleUser)

	grant := func(actor *entity.User, role entity.Role) error {
		_, err := svc.Update(testCtx, actor, "target", UpdateUserInput{Role: &role})
		return err
	}

	require.ErrorIs(t, grant(moderator, entity.RoleAdmin), apperror.ErrPrivilegeEscalation)
	require.ErrorIs(t, grant(user, entity.RoleModerator), apperror.ErrPrivilegeEscalation)
	require.ErrorIs(t, grant(user, entity.RoleAdmin), apperror.ErrPrivilegeEscalation)

	require.NoError(t, grant(moderator, entity.RoleModerator))
	require.NoError(t, grant(admin, entity.RoleAdmin))

	stored, err := users.FindByID(testCtx, target.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, stored.Role)
	require.True(t, stored.IsStaff)
}

func TestInconsistentStaffFlagIsRejected(t *testing.T) {
	db := setupTestDB(t)

	broken := &entity.User{Email: "broken@example.com", Role: entity.RoleAdmin, IsStaff: false}
	err := db.Create(broken).Error
	require.ErrorIs(t, err, apperror.ErrRoleStaffInconsistency)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	require.Zero(t, count, "rejected write must not leave a partial row")
}

func TestUpdateMeRequiresUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	anon := &entity.User{Email: "anon@example.com"}
	anon.SetRole(entity.RoleUser)
	require.NoError(t, db.Create(anon).Error)

	bio := "long-time reader"
	_, err := svc.UpdateMe(testCtx, anon, UpdateUserInput{Bio: &bio})
	require.ErrorIs(t, err, apperror.ErrUsernameRequired)

	username := "reader"
	updated, err := svc.UpdateMe(testCtx, anon, UpdateUserInput{Username: &username, Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "reader", *updated.Username)

	// With the username in place, further profile edits go through.
	bio2 := "still reading"
	_, err = svc.UpdateMe(testCtx, updated, UpdateUserInput{Bio: &bio2})
	require.NoError(t, err)
}

func TestListHidesUsersWithoutUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	seedUser(t, db, "visible", entity.RoleUser)
	hidden := &entity.User{Email: "hidden@example.com"}
	hidden.SetRole(entity.RoleUser)
	require.NoError(t, db.Create(hidden).Error)

	users, err := svc.List(testCtx, "")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "visible", *users[0].Username)
}
