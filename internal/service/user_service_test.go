package service

import (
	"strconv"
	"testing"

	"notekeeper/internal/contract"
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/domain/sqlite/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Sign(userID int) (string, error) {
	return "token-for-" + strconv.Itoa(userID), nil
}

func newUserTestEnv(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection per pool, every :memory: connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.User{}))

	svc := NewUserService(repository.NewUserRepository(db), fakeTokenIssuer{}, newTestValidator(t))
	return svc, db
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, db := newUserTestEnv(t)

	auth, apierr := svc.Register(&contract.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "Sup3r$ecret",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "alice", auth.User.Username)
	assert.Equal(t, "alice@example.com", auth.User.Email) // normalized
	assert.Equal(t, "USER", auth.User.Role)
	assert.Equal(t, "token-for-"+strconv.Itoa(auth.User.ID), auth.Token)

	// The stored hash is bcrypt, never the raw password.
	var stored entity.User
	require.NoError(t, db.First(&stored, auth.User.ID).Error)
	assert.NotEqual(t, "Sup3r$ecret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	login, apierr := svc.Login(&contract.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.Nil(t, apierr)
	assert.Equal(t, auth.User.ID, login.User.ID)
}

func TestUserService_RegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newUserTestEnv(t)

	_, apierr := svc.Register(&contract.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "alllowercase",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserTestEnv(t)

	_, apierr := svc.Register(&contract.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.Nil(t, apierr)

	_, apierr = svc.Register(&contract.RegisterRequest{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "Sup3r$ecret",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())

	_, apierr = svc.Register(&contract.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "Sup3r$ecret",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestUserService_LoginBadCredentials(t *testing.T) {
	svc, _ := newUserTestEnv(t)

	_, apierr := svc.Register(&contract.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.Nil(t, apierr)

	// Unknown email and wrong password produce the same generic error.
	_, unknownErr := svc.Login(&contract.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Sup3r$ecret",
	})
	require.NotNil(t, unknownErr)

	_, wrongErr := svc.Login(&contract.LoginRequest{
		Email:    "alice@example.com",
		Password: "Wr0ng$ecret",
	})
	require.NotNil(t, wrongErr)

	assert.Equal(t, unknownErr, wrongErr)
	assert.Equal(t, 400, wrongErr.Code())
}

func TestUserService_AdminSeedEmail(t *testing.T) {
	svc, _ := newUserTestEnv(t)
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	auth, apierr := svc.Register(&contract.RegisterRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "Sup3r$ecret",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "ADMIN", auth.User.Role)
}

func TestUserService_Profile(t *testing.T) {
	svc, _ := newUserTestEnv(t)

	user := &entity.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      entity.RoleUser,
		CreatedAt: 1000,
	}

	profile, apierr := svc.Profile(user)
	require.Nil(t, apierr)
	assert.Equal(t, 7, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "USER", profile.Role)
}
