package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB подменяет config.DB на чистую in-memory базу.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Backlog{},
		&models.Sprint{},
		&models.Event{},
		&models.UserStory{},
		&models.Task{},
		&models.TaskHistory{},
		&models.ForumThread{},
		&models.ForumPost{},
		&models.Question{},
		&models.Answer{},
		&models.AnswerVote{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db
}

// newTestRouter возвращает роутер с подставленным текущим пользователем.
func newTestRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_admin", true)
		c.Next()
	})
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func createTestUser(t *testing.T, login string) models.User {
	t.Helper()
	user := models.User{
		FullName:     "Test " + login,
		Login:        login,
		Email:        login + "@example.com",
		PasswordHash: "x",
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, ownerID uint) models.Project {
	t.Helper()
	project := models.Project{Name: "Test Project", OwnerID: ownerID, InviteCode: fmt.Sprintf("code-%d", atomic.AddInt64(&testDBCounter, 1))}
	if err := config.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	member := models.ProjectMember{ProjectID: project.ID, UserID: ownerID, Role: "owner"}
	if err := config.DB.Create(&member).Error; err != nil {
		t.Fatalf("failed to create test project member: %v", err)
	}
	return project
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("unexpected status code: got %d, want %d, body: %s", w.Code, want, w.Body.String())
	}
}
