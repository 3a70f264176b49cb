package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"taskhive/config"
	"taskhive/models"
)

func sprintPayload(start, end string) map[string]interface{} {
	return map[string]interface{}{
		"title":           "Sprint 1",
		"goal":            "Ship the thing",
		"start_date":      start,
		"end_date":        end,
		"dailyStartTime":  "09:00",
		"dailyEndTime":    "09:15",
		"reviewStartTime": "14:00",
		"reviewEndTime":   "15:00",
		"retroStartTime":  "15:30",
		"retroEndTime":    "16:30",
	}
}

func setupSprintRouter(t *testing.T) (uint, func(string) string) {
	t.Helper()
	setupTestDB(t)
	user := createTestUser(t, "sprinter")
	project := createTestProject(t, user.ID)
	return user.ID, func(path string) string {
		return fmt.Sprintf(path, project.ID)
	}
}

func TestCreateSprint_GeneratesCeremonyCalendar(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusOK)

	var resp SprintResponse
	decodeResponse(t, w, &resp)

	if len(resp.Planning) != 3 {
		t.Fatalf("expected 3 daily meetings, got %d", len(resp.Planning))
	}
	if len(resp.Reviews) != 1 || len(resp.Retrospectives) != 1 {
		t.Fatalf("expected exactly one review and one retrospective, got %d and %d",
			len(resp.Reviews), len(resp.Retrospectives))
	}

	wantDates := []string{"2025-06-02", "2025-06-03", "2025-06-04"}
	for i, event := range resp.Planning {
		if got := event.Date.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("daily meeting %d: expected date %s, got %s", i, wantDates[i], got)
		}
		if got := event.StartTime.Format("15:04"); got != "09:00" {
			t.Errorf("daily meeting %d: expected start 09:00, got %s", i, got)
		}
		if got := event.EndTime.Format("15:04"); got != "09:15" {
			t.Errorf("daily meeting %d: expected end 09:15, got %s", i, got)
		}
		if event.Title != "Daily Meeting" || event.Type != models.EventTypeMeeting || event.Repeat != models.EventRepeatNone {
			t.Errorf("daily meeting %d has wrong title/type/repeat: %+v", i, event)
		}
	}

	for _, event := range append(resp.Reviews, resp.Retrospectives...) {
		if got := event.Date.Format("2006-01-02"); got != "2025-06-04" {
			t.Errorf("closing ceremony %s: expected date 2025-06-04, got %s", event.Title, got)
		}
	}
}

func TestCreateSprint_DayCountProperty(t *testing.T) {
	cases := []struct {
		start, end string
		wantDays   int
	}{
		{"2025-01-01T00:00:00Z", "2025-01-01T00:00:00Z", 1},
		{"2025-01-01T00:00:00Z", "2025-01-14T00:00:00Z", 14},
		{"2025-02-27T00:00:00Z", "2025-03-02T00:00:00Z", 4}, // переход через месяц
		{"2024-02-28T00:00:00Z", "2024-03-01T00:00:00Z", 3}, // високосный год
	}

	for _, tc := range cases {
		userID, url := setupSprintRouter(t)
		r := newTestRouter(userID)
		r.POST("/projects/:projectId/sprints", CreateSprintHandler)

		w := performJSON(t, r, "POST", url("/projects/%d/sprints"), sprintPayload(tc.start, tc.end))
		mustStatus(t, w, http.StatusOK)

		var resp SprintResponse
		decodeResponse(t, w, &resp)

		if len(resp.Planning) != tc.wantDays {
			t.Errorf("range %s..%s: expected %d daily meetings, got %d",
				tc.start, tc.end, tc.wantDays, len(resp.Planning))
		}
		var total int64
		config.DB.Model(&models.Event{}).Where("sprint_id = ?", resp.ID).Count(&total)
		if total != int64(tc.wantDays+2) {
			t.Errorf("range %s..%s: expected %d events in store, got %d",
				tc.start, tc.end, tc.wantDays+2, total)
		}
	}
}

func TestCreateSprint_SingleDay(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-04T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusOK)

	var resp SprintResponse
	decodeResponse(t, w, &resp)

	if len(resp.Planning) != 1 || len(resp.Reviews) != 1 || len(resp.Retrospectives) != 1 {
		t.Fatalf("single-day sprint: expected 1+1+1 ceremonies, got %d+%d+%d",
			len(resp.Planning), len(resp.Reviews), len(resp.Retrospectives))
	}
	for _, event := range resp.Planning {
		if got := event.Date.Format("2006-01-02"); got != "2025-06-04" {
			t.Errorf("expected all ceremonies on 2025-06-04, got %s", got)
		}
	}
}

func TestCreateSprint_RejectsInvertedRange(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-04T00:00:00Z", "2025-06-02T00:00:00Z"))
	mustStatus(t, w, http.StatusBadRequest)

	// Ошибка валидации не должна оставлять следов в хранилище
	var sprints, events int64
	config.DB.Model(&models.Sprint{}).Count(&sprints)
	config.DB.Model(&models.Event{}).Count(&events)
	if sprints != 0 || events != 0 {
		t.Fatalf("validation failure must not persist anything, got %d sprints and %d events", sprints, events)
	}
}

func TestCreateSprint_RejectsBadCeremonyTimes(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)

	payload := sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z")
	payload["dailyEndTime"] = "08:00" // раньше начала

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"), payload)
	mustStatus(t, w, http.StatusBadRequest)

	payload = sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z")
	payload["reviewStartTime"] = "25:99"
	w = performJSON(t, r, "POST", url("/projects/%d/sprints"), payload)
	mustStatus(t, w, http.StatusBadRequest)
}

func TestCreateSprint_UnknownProject(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "sprinter")
	r := newTestRouter(user.ID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)

	w := performJSON(t, r, "POST", "/projects/9999/sprints",
		sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusNotFound)
}

func TestSprintLifecycle_StartAndComplete(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)
	r.PUT("/sprints/:id/start", StartSprintHandler)
	r.PUT("/sprints/:id/complete", CompleteSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusOK)
	var created SprintResponse
	decodeResponse(t, w, &created)

	w = performJSON(t, r, "PUT", fmt.Sprintf("/sprints/%d/start", created.ID), nil)
	mustStatus(t, w, http.StatusOK)
	var started models.Sprint
	decodeResponse(t, w, &started)
	if started.Status != models.SprintStatusInProgress {
		t.Fatalf("expected status %q after start, got %q", models.SprintStatusInProgress, started.Status)
	}

	w = performJSON(t, r, "PUT", fmt.Sprintf("/sprints/%d/complete", created.ID), nil)
	mustStatus(t, w, http.StatusOK)
	var completed models.Sprint
	decodeResponse(t, w, &completed)
	if completed.Status != models.SprintStatusCompleted {
		t.Fatalf("expected status %q after complete, got %q", models.SprintStatusCompleted, completed.Status)
	}

	// Завершенный спринт можно запустить заново - предусловий нет
	w = performJSON(t, r, "PUT", fmt.Sprintf("/sprints/%d/start", created.ID), nil)
	mustStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &started)
	if started.Status != models.SprintStatusInProgress {
		t.Fatalf("restart of completed sprint should succeed, got status %q", started.Status)
	}
}

func TestSprintLateness(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "sprinter")
	project := createTestProject(t, user.ID)

	pastEnd := time.Now().Add(-48 * time.Hour)
	cases := []struct {
		status   string
		endDate  time.Time
		wantLate bool
	}{
		{models.SprintStatusCompleted, pastEnd, false},
		{models.SprintStatusInProgress, pastEnd, true},
		{models.SprintStatusPlanned, time.Now().Add(48 * time.Hour), false},
	}

	r := newTestRouter(user.ID)
	r.GET("/sprints/:id/late", SprintLatenessHandler)

	for _, tc := range cases {
		sprint := models.Sprint{
			Title:     "S",
			StartDate: pastEnd.Add(-7 * 24 * time.Hour),
			EndDate:   tc.endDate,
			Status:    tc.status,
			ProjectID: project.ID,
		}
		if err := config.DB.Create(&sprint).Error; err != nil {
			t.Fatalf("failed to create sprint: %v", err)
		}

		w := performJSON(t, r, "GET", fmt.Sprintf("/sprints/%d/late", sprint.ID), nil)
		mustStatus(t, w, http.StatusOK)
		var resp struct {
			SprintID uint `json:"sprintId"`
			IsLate   bool `json:"isLate"`
		}
		decodeResponse(t, w, &resp)
		if resp.IsLate != tc.wantLate {
			t.Errorf("status %q, end %v: expected isLate=%v, got %v", tc.status, tc.endDate, tc.wantLate, resp.IsLate)
		}
	}
}

func TestUpdateSprint_RegeneratesCeremonies(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)
	r.PUT("/sprints/:id", UpdateSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusOK)
	var created SprintResponse
	decodeResponse(t, w, &created)

	update := sprintPayload("2025-06-02T00:00:00Z", "2025-06-06T00:00:00Z")
	w = performJSON(t, r, "PUT", fmt.Sprintf("/sprints/%d", created.ID), update)
	mustStatus(t, w, http.StatusOK)

	var updated SprintResponse
	decodeResponse(t, w, &updated)
	if len(updated.Planning) != 5 {
		t.Fatalf("after extending range expected 5 daily meetings, got %d", len(updated.Planning))
	}

	// Старые церемонии не должны остаться в хранилище
	var total int64
	config.DB.Model(&models.Event{}).Where("sprint_id = ?", created.ID).Count(&total)
	if total != 7 {
		t.Fatalf("expected 7 ceremony events after regeneration, got %d", total)
	}
}

func TestDeleteSprint_RemovesCeremoniesAndUnlinksStories(t *testing.T) {
	userID, url := setupSprintRouter(t)
	r := newTestRouter(userID)
	r.POST("/projects/:projectId/sprints", CreateSprintHandler)
	r.DELETE("/sprints/:id", DeleteSprintHandler)

	w := performJSON(t, r, "POST", url("/projects/%d/sprints"),
		sprintPayload("2025-06-02T00:00:00Z", "2025-06-04T00:00:00Z"))
	mustStatus(t, w, http.StatusOK)
	var created SprintResponse
	decodeResponse(t, w, &created)

	sid := created.ID
	story := models.UserStory{Title: "Story", SprintID: &sid}
	if err := config.DB.Create(&story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}

	w = performJSON(t, r, "DELETE", fmt.Sprintf("/sprints/%d", created.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var events int64
	config.DB.Model(&models.Event{}).Where("sprint_id = ?", created.ID).Count(&events)
	if events != 0 {
		t.Fatalf("ceremony events must be deleted with the sprint, %d left", events)
	}

	var reloaded models.UserStory
	if err := config.DB.First(&reloaded, story.ID).Error; err != nil {
		t.Fatalf("story must survive sprint deletion: %v", err)
	}
	if reloaded.SprintID != nil {
		t.Fatalf("story sprint reference must be cleared, got %v", *reloaded.SprintID)
	}
}
