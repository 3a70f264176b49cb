package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"taskhive/config"
	"taskhive/models"
)

func setupQuestion(t *testing.T) (models.Question, models.Answer) {
	t.Helper()
	setupTestDB(t)
	author := createTestUser(t, "asker")
	project := createTestProject(t, author.ID)

	question := models.Question{ProjectID: project.ID, AuthorID: author.ID, Title: "How?"}
	if err := config.DB.Create(&question).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}
	answer := models.Answer{QuestionID: question.ID, AuthorID: author.ID, Body: "Like this"}
	if err := config.DB.Create(&answer).Error; err != nil {
		t.Fatalf("failed to create answer: %v", err)
	}
	return question, answer
}

func TestVoteAnswer_SingleVotePerUser(t *testing.T) {
	_, answer := setupQuestion(t)
	voter := createTestUser(t, "voter")

	r := newTestRouter(voter.ID)
	r.POST("/answers/:id/vote", VoteAnswerHandler)

	url := fmt.Sprintf("/answers/%d/vote", answer.ID)

	w := performJSON(t, r, "POST", url, map[string]interface{}{"value": 1})
	mustStatus(t, w, http.StatusOK)

	// Повторный голос того же пользователя меняет значение, а не добавляет второй
	w = performJSON(t, r, "POST", url, map[string]interface{}{"value": -1})
	mustStatus(t, w, http.StatusOK)

	var resp struct {
		AnswerID uint `json:"answerId"`
		Score    int  `json:"score"`
	}
	decodeResponse(t, w, &resp)
	if resp.Score != -1 {
		t.Fatalf("expected score -1 after vote change, got %d", resp.Score)
	}

	var votes int64
	config.DB.Model(&models.AnswerVote{}).Where("answer_id = ?", answer.ID).Count(&votes)
	if votes != 1 {
		t.Fatalf("expected exactly one vote row per user, got %d", votes)
	}
}

func TestVoteAnswer_Tally(t *testing.T) {
	_, answer := setupQuestion(t)

	values := []int{1, 1, -1}
	for i, value := range values {
		voter := createTestUser(t, fmt.Sprintf("voter%d", i))
		r := newTestRouter(voter.ID)
		r.POST("/answers/:id/vote", VoteAnswerHandler)

		w := performJSON(t, r, "POST", fmt.Sprintf("/answers/%d/vote", answer.ID),
			map[string]interface{}{"value": value})
		mustStatus(t, w, http.StatusOK)

		if i == len(values)-1 {
			var resp struct {
				Score int `json:"score"`
			}
			decodeResponse(t, w, &resp)
			if resp.Score != 1 {
				t.Fatalf("expected tally 1 for votes %v, got %d", values, resp.Score)
			}
		}
	}
}

func TestVoteAnswer_RejectsBadValue(t *testing.T) {
	_, answer := setupQuestion(t)
	voter := createTestUser(t, "voter")

	r := newTestRouter(voter.ID)
	r.POST("/answers/:id/vote", VoteAnswerHandler)

	w := performJSON(t, r, "POST", fmt.Sprintf("/answers/%d/vote", answer.ID),
		map[string]interface{}{"value": 5})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestDeleteQuestion_CascadesAnswersAndVotes(t *testing.T) {
	question, answer := setupQuestion(t)
	voter := createTestUser(t, "voter")

	vote := models.AnswerVote{AnswerID: answer.ID, UserID: voter.ID, Value: 1}
	if err := config.DB.Create(&vote).Error; err != nil {
		t.Fatalf("failed to create vote: %v", err)
	}

	r := newTestRouter(voter.ID)
	r.DELETE("/questions/:id", DeleteQuestionHandler)

	w := performJSON(t, r, "DELETE", fmt.Sprintf("/questions/%d", question.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var questions, answers, votes int64
	config.DB.Model(&models.Question{}).Count(&questions)
	config.DB.Model(&models.Answer{}).Count(&answers)
	config.DB.Model(&models.AnswerVote{}).Count(&votes)
	if questions != 0 || answers != 0 || votes != 0 {
		t.Fatalf("transactional delete must remove question, answers and votes; left %d/%d/%d",
			questions, answers, votes)
	}
}
