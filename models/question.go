// taskhive/models/question.go
package models

import "gorm.io/gorm"

// Question представляет вопрос в разделе Q&A проекта.
type Question struct {
	gorm.Model
	ProjectID uint   `json:"project_id" gorm:"index"`
	AuthorID  uint   `json:"author_id"`
	Title     string `json:"title" gorm:"not null"`
	Body      string `json:"body" gorm:"type:text"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
}

// Answer представляет ответ на вопрос.
type Answer struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index"`
	AuthorID   uint   `json:"author_id"`
	Body       string `json:"body" gorm:"type:text;not null"`
	Accepted   bool   `json:"accepted" gorm:"default:false"`

	Votes []AnswerVote `json:"votes,omitempty" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE;"`
}

// AnswerVote - голос пользователя за ответ. Один пользователь может иметь
// не более одного голоса на ответ, значение +1 или -1.
type AnswerVote struct {
	gorm.Model
	AnswerID uint `json:"answer_id" gorm:"index:idx_answer_user,unique"`
	UserID   uint `json:"user_id" gorm:"index:idx_answer_user,unique"`
	Value    int  `json:"value"`
}
