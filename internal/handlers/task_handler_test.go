package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"taskhive/config"
	"taskhive/models"
)

func TestUpdateTask_WritesHistoryPerChangedField(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "editor")
	assignee := createTestUser(t, "assignee")
	project := createTestProject(t, user.ID)

	task := models.Task{
		Title:       "Old title",
		Description: "Old description",
		Status:      "todo",
		Priority:    "low",
		ProjectID:   project.ID,
	}
	if err := config.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	r := newTestRouter(user.ID)
	r.PUT("/tasks/:id", UpdateTaskHandler)

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	w := performJSON(t, r, "PUT", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"title":          "New title",
		"description":    "Old description",
		"status":         "in_progress",
		"priority":       "low",
		"due_date":       due.Format(time.RFC3339),
		"assigned_to_id": assignee.ID,
	})
	mustStatus(t, w, http.StatusOK)

	var history []models.TaskHistory
	if err := config.DB.Where("task_id = ?", task.ID).Find(&history).Error; err != nil {
		t.Fatalf("failed to load history: %v", err)
	}

	// Изменились title, status, due_date и assigned_to; description и priority нет
	changed := map[string]bool{}
	for _, h := range history {
		changed[h.Field] = true
		if h.UserID != user.ID {
			t.Fatalf("history entry must record the editing user, got %d", h.UserID)
		}
	}
	for _, field := range []string{"title", "status", "due_date", "assigned_to"} {
		if !changed[field] {
			t.Fatalf("expected history entry for field %q, got %v", field, changed)
		}
	}
	if changed["description"] || changed["priority"] {
		t.Fatalf("unchanged fields must not produce history entries, got %v", changed)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(history))
	}
}

func TestUpdateTask_RecordsOldAndNewValues(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "editor")
	project := createTestProject(t, user.ID)

	task := models.Task{Title: "Before", Status: "todo", Priority: "low", ProjectID: project.ID}
	if err := config.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	r := newTestRouter(user.ID)
	r.PUT("/tasks/:id", UpdateTaskHandler)

	w := performJSON(t, r, "PUT", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"title": "After",
	})
	mustStatus(t, w, http.StatusOK)

	var entry models.TaskHistory
	err := config.DB.Where("task_id = ? AND field = ?", task.ID, "title").First(&entry).Error
	if err != nil {
		t.Fatalf("failed to load title history entry: %v", err)
	}
	if entry.OldValue != "Before" || entry.NewValue != "After" {
		t.Fatalf("expected old/new = Before/After, got %q/%q", entry.OldValue, entry.NewValue)
	}
}

func TestDeleteTask_RemovesHistory(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "editor")
	project := createTestProject(t, user.ID)

	task := models.Task{Title: "Doomed", Status: "todo", Priority: "low", ProjectID: project.ID}
	if err := config.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	entry := models.TaskHistory{TaskID: task.ID, UserID: user.ID, Field: "title", OldValue: "a", NewValue: "b"}
	if err := config.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create history entry: %v", err)
	}

	r := newTestRouter(user.ID)
	r.DELETE("/tasks/:id", DeleteTaskHandler)

	w := performJSON(t, r, "DELETE", fmt.Sprintf("/tasks/%d", task.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var tasks, history int64
	config.DB.Model(&models.Task{}).Count(&tasks)
	config.DB.Model(&models.TaskHistory{}).Count(&history)
	if tasks != 0 || history != 0 {
		t.Fatalf("task delete must remove history too; left %d tasks, %d history rows", tasks, history)
	}
}
