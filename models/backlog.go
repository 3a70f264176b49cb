// taskhive/models/backlog.go
package models

import "gorm.io/gorm"

// Backlog группирует пользовательские истории проекта вне привязки к спринтам.
type Backlog struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	ProjectID uint   `json:"project_id" gorm:"index"`

	UserStories []UserStory `json:"user_stories,omitempty" gorm:"foreignKey:BacklogID"`
}
