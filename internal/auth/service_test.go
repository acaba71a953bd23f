package auth

import (
	"testing"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&chat.User{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register("Nguyen Van A", "a@fpt.edu.vn", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, CheckPassword("password123", user.Password))
}

func TestAuthService_Register_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register("", "a@fpt.edu.vn", "pw")
	assert.Error(t, err)
	_, err = svc.Register("A", "", "pw")
	assert.Error(t, err)
	_, err = svc.Register("A", "a@fpt.edu.vn", "")
	assert.Error(t, err)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register("First", "dup@fpt.edu.vn", "pw1")
	require.NoError(t, err)
	_, err = svc.Register("Second", "dup@fpt.edu.vn", "pw2")
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	registered, err := svc.Register("Nguyen Van A", "a@fpt.edu.vn", "password123")
	require.NoError(t, err)

	user, err := svc.Login("a@fpt.edu.vn", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login("a@fpt.edu.vn", "wrong")
	assert.Error(t, err)

	_, err = svc.Login("nobody@fpt.edu.vn", "password123")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	am := NewAuthMiddleware("test-secret")

	token, err := am.GenerateToken("user-1", "a@fpt.edu.vn")
	require.NoError(t, err)

	claims, err := am.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "a@fpt.edu.vn", claims["email"])
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewAuthMiddleware("secret-one").GenerateToken("user-1", "a@fpt.edu.vn")
	require.NoError(t, err)

	_, err = NewAuthMiddleware("secret-two").ValidateToken(token)
	assert.Error(t, err)
}
