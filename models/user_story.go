// taskhive/models/user_story.go
package models

import "gorm.io/gorm"

// validStoryPoints - допустимые оценки истории (модифицированный ряд Фибоначчи).
var validStoryPoints = map[float64]bool{
	0.5: true, 1: true, 2: true, 3: true, 5: true,
	8: true, 13: true, 20: true, 40: true, 100: true,
}

// IsValidStoryPoints проверяет, что оценка входит в допустимый ряд.
func IsValidStoryPoints(points float64) bool {
	return validStoryPoints[points]
}

// UserStory представляет пользовательскую историю.
// Ссылки на спринт, бэклог и исполнителя - слабые: они используются только
// для выборок и не несут каскадной семантики.
type UserStory struct {
	gorm.Model
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	Status      string  `json:"status" gorm:"type:varchar(50);default:'To Do'"`
	Priority    string  `json:"priority" gorm:"type:varchar(50);default:'Medium'"`
	StoryPoints float64 `json:"story_points"`

	SprintID     *uint `json:"sprint_id,omitempty" gorm:"index"`
	BacklogID    *uint `json:"backlog_id,omitempty" gorm:"index"`
	AssignedToID *uint `json:"assigned_to_id,omitempty"`
}
