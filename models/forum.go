// taskhive/models/forum.go
package models

import "gorm.io/gorm"

// ForumThread представляет тему обсуждения внутри проекта.
type ForumThread struct {
	gorm.Model
	ProjectID uint   `json:"project_id" gorm:"index"`
	AuthorID  uint   `json:"author_id"`
	Title     string `json:"title" gorm:"not null"`

	Posts []ForumPost `json:"posts,omitempty" gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE;"`
}

// ForumPost представляет сообщение в теме форума.
// Sentiment заполняется автоматически при создании сообщения.
type ForumPost struct {
	gorm.Model
	ThreadID  uint   `json:"thread_id" gorm:"index"`
	AuthorID  uint   `json:"author_id"`
	Content   string `json:"content" gorm:"type:text;not null"`
	Sentiment string `json:"sentiment" gorm:"type:varchar(20);default:'neutral'"` // 'positive', 'neutral', 'negative'
}
