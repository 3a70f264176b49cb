package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"taskhive/config"
	"taskhive/models"
)

func TestCreateUserStory_ValidatesStoryPoints(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "writer")
	r := newTestRouter(user.ID)
	r.POST("/userstories", CreateUserStoryHandler)

	w := performJSON(t, r, "POST", "/userstories", map[string]interface{}{
		"title":        "Estimable story",
		"story_points": 7, // не входит в допустимый ряд
	})
	mustStatus(t, w, http.StatusBadRequest)

	var count int64
	config.DB.Model(&models.UserStory{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid story must not be persisted, found %d", count)
	}

	for _, points := range []float64{0.5, 1, 2, 3, 5, 8, 13, 20, 40, 100} {
		w = performJSON(t, r, "POST", "/userstories", map[string]interface{}{
			"title":        "Estimable story",
			"story_points": points,
		})
		mustStatus(t, w, http.StatusCreated)
	}
}

func TestAddUserStoryToSprint_Idempotent(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "linker")
	project := createTestProject(t, user.ID)

	sprint := models.Sprint{Title: "S", ProjectID: project.ID}
	if err := config.DB.Create(&sprint).Error; err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}
	story := models.UserStory{Title: "Story"}
	if err := config.DB.Create(&story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}

	r := newTestRouter(user.ID)
	r.POST("/sprints/:id/userstories/:userStoryId", AddUserStoryToSprintHandler)

	url := fmt.Sprintf("/sprints/%d/userstories/%d", sprint.ID, story.ID)
	for i := 0; i < 2; i++ {
		w := performJSON(t, r, "POST", url, nil)
		mustStatus(t, w, http.StatusOK)
	}

	var resp SprintResponse
	w := performJSON(t, r, "POST", url, nil)
	mustStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &resp)

	if len(resp.UserStories) != 1 {
		t.Fatalf("story must appear in the sprint exactly once, got %d entries", len(resp.UserStories))
	}
	if resp.UserStories[0].ID != story.ID {
		t.Fatalf("unexpected story in sprint: %d", resp.UserStories[0].ID)
	}
}

func TestAddUserStoryToSprint_NotFound(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "linker")
	project := createTestProject(t, user.ID)

	sprint := models.Sprint{Title: "S", ProjectID: project.ID}
	if err := config.DB.Create(&sprint).Error; err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}
	story := models.UserStory{Title: "Story"}
	if err := config.DB.Create(&story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}

	r := newTestRouter(user.ID)
	r.POST("/sprints/:id/userstories/:userStoryId", AddUserStoryToSprintHandler)

	w := performJSON(t, r, "POST", fmt.Sprintf("/sprints/9999/userstories/%d", story.ID), nil)
	mustStatus(t, w, http.StatusNotFound)

	w = performJSON(t, r, "POST", fmt.Sprintf("/sprints/%d/userstories/9999", sprint.ID), nil)
	mustStatus(t, w, http.StatusNotFound)
}

func TestRemoveUserStoryFromSprint_Symmetric(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "linker")
	project := createTestProject(t, user.ID)

	sprint := models.Sprint{Title: "S", ProjectID: project.ID}
	if err := config.DB.Create(&sprint).Error; err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}
	sid := sprint.ID
	story := models.UserStory{Title: "Story", SprintID: &sid}
	if err := config.DB.Create(&story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}

	r := newTestRouter(user.ID)
	r.DELETE("/userstories/:id/sprint", RemoveUserStoryFromSprintHandler)
	r.GET("/sprints/:id", GetSprintHandler)

	w := performJSON(t, r, "DELETE", fmt.Sprintf("/userstories/%d/sprint", story.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var reloaded models.UserStory
	if err := config.DB.First(&reloaded, story.ID).Error; err != nil {
		t.Fatalf("failed to reload story: %v", err)
	}
	if reloaded.SprintID != nil {
		t.Fatalf("sprint reference must be cleared, got %v", *reloaded.SprintID)
	}

	// Членство выводится по sprint_id, поэтому спринт истории больше не видит
	w = performJSON(t, r, "GET", fmt.Sprintf("/sprints/%d", sprint.ID), nil)
	mustStatus(t, w, http.StatusOK)
	var resp SprintResponse
	decodeResponse(t, w, &resp)
	if len(resp.UserStories) != 0 {
		t.Fatalf("sprint story list must be empty after unlink, got %d entries", len(resp.UserStories))
	}
}
