// taskhive/internal/handlers/question_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// QuestionRequest - данные для создания вопроса.
type QuestionRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// AnswerRequest - данные для создания ответа.
type AnswerRequest struct {
	Body string `json:"body" binding:"required"`
}

// VoteRequest - голос за ответ: +1 или -1.
type VoteRequest struct {
	Value int `json:"value" binding:"required"`
}

// AnswerResponse дополняет ответ суммой голосов.
type AnswerResponse struct {
	models.Answer
	Score int `json:"score"`
}

// tallyVotes суммирует значения голосов ответа.
func tallyVotes(votes []models.AnswerVote) int {
	score := 0
	for _, v := range votes {
		score += v.Value
	}
	return score
}

// ListQuestionsHandler возвращает вопросы проекта.
func ListQuestionsHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var questions []models.Question
	err = config.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить вопросы"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": questions})
}

// CreateQuestionHandler создает вопрос.
func CreateQuestionHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	question := models.Question{
		ProjectID: uint(projectID),
		AuthorID:  c.GetUint("user_id"),
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := config.DB.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestionHandler возвращает вопрос с ответами и подсчитанными голосами.
func GetQuestionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	var question models.Question
	err = config.DB.Preload("Answers.Votes").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Вопрос не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	answers := make([]AnswerResponse, 0, len(question.Answers))
	for _, a := range question.Answers {
		answers = append(answers, AnswerResponse{Answer: a, Score: tallyVotes(a.Votes)})
	}

	c.JSON(http.StatusOK, gin.H{"question": question, "answers": answers})
}

// CreateAnswerHandler добавляет ответ и уведомляет автора вопроса.
func CreateAnswerHandler(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var question models.Question
	if err := config.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Вопрос не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	currentUserID := c.GetUint("user_id")
	answer := models.Answer{
		QuestionID: question.ID,
		AuthorID:   currentUserID,
		Body:       req.Body,
	}
	if err := config.DB.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer: " + err.Error()})
		return
	}

	if question.AuthorID != currentUserID {
		NotifyUser(question.AuthorID, "На ваш вопрос «"+question.Title+"» появился новый ответ")
	}

	c.JSON(http.StatusCreated, answer)
}

// VoteAnswerHandler регистрирует голос за ответ. Повторный голос того же
// пользователя обновляет значение, а не создает второй голос.
func VoteAnswerHandler(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Value != 1 && req.Value != -1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Значение голоса должно быть +1 или -1"})
		return
	}

	var answer models.Answer
	if err := config.DB.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ответ не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	currentUserID := c.GetUint("user_id")

	var vote models.AnswerVote
	err = config.DB.Where("answer_id = ? AND user_id = ?", answer.ID, currentUserID).First(&vote).Error
	switch {
	case err == nil:
		vote.Value = req.Value
		if err := config.DB.Save(&vote).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote = models.AnswerVote{AnswerID: answer.ID, UserID: currentUserID, Value: req.Value}
		if err := config.DB.Create(&vote).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error while checking vote"})
		return
	}

	var votes []models.AnswerVote
	if err := config.DB.Where("answer_id = ?", answer.ID).Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tally votes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answerId": answer.ID, "score": tallyVotes(votes)})
}

// AcceptAnswerHandler помечает ответ принятым. Принятым может быть только
// один ответ на вопрос, пометка делается автором вопроса.
func AcceptAnswerHandler(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}

	var answer models.Answer
	if err := config.DB.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ответ не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var question models.Question
	if err := config.DB.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if question.AuthorID != c.GetUint("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Принять ответ может только автор вопроса"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).
			Update("accepted", false).Error; err != nil {
			return err
		}
		return tx.Model(&answer).Update("accepted", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept answer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted"})
}

// DeleteQuestionHandler удаляет вопрос вместе с ответами и голосами
// в одной транзакции.
func DeleteQuestionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	var question models.Question
	if err := config.DB.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Вопрос не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.AnswerVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", answerIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
