package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	a "github.com/anhnphe171575/SepCapstone-sub005/internal/auth"
	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&chat.User{}, &chat.Project{}, &chat.Team{}, &chat.TeamMember{}, &chat.Message{}, &chat.MessageRead{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func hashPasswordForTest(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	ah := NewAuthHandlers(db, a.NewAuthMiddleware("test-secret"))
	router := gin.New()
	router.POST("/register", ah.RegisterHandler)

	w := postJSON(t, router, "/register", UserRegisterInput{
		FullName: "Nguyen Van A",
		Email:    "a@fpt.edu.vn",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Register successful", response["message"])

	user := response["user"].(map[string]any)
	assert.Equal(t, "Nguyen Van A", user["full_name"])
	assert.NotEmpty(t, user["id"])

	var stored chat.User
	require.NoError(t, db.First(&stored, "email = ?", "a@fpt.edu.vn").Error)
	assert.NotEqual(t, "password123", stored.Password)
}

func TestAuthHandlers_Register_DuplicateEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	existing := &chat.User{FullName: "First", Email: "dup@fpt.edu.vn", Password: hashPasswordForTest("pw")}
	require.NoError(t, db.Create(existing).Error)

	ah := NewAuthHandlers(db, a.NewAuthMiddleware("test-secret"))
	router := gin.New()
	router.POST("/register", ah.RegisterHandler)

	w := postJSON(t, router, "/register", UserRegisterInput{
		FullName: "Second",
		Email:    "dup@fpt.edu.vn",
		Password: "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlers_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	user := &chat.User{FullName: "Nguyen Van A", Email: "a@fpt.edu.vn", Password: hashPasswordForTest("password123")}
	require.NoError(t, db.Create(user).Error)

	ah := NewAuthHandlers(db, a.NewAuthMiddleware("test-secret"))
	router := gin.New()
	router.POST("/login", ah.LoginHandler)

	w := postJSON(t, router, "/login", UserLoginInput{Email: "a@fpt.edu.vn", Password: "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	w = postJSON(t, router, "/login", UserLoginInput{Email: "a@fpt.edu.vn", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
