// taskhive/models/sprint.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы спринта.
const (
	SprintStatusPlanned    = "Planned"
	SprintStatusInProgress = "In Progress"
	SprintStatusCompleted  = "Completed"
)

// Sprint представляет модель спринта.
// Список историй не хранится в самом спринте: членство выводится
// по полю sprint_id у UserStory, поэтому прямая и обратная связь
// не могут разойтись.
type Sprint struct {
	gorm.Model
	Title     string    `json:"title" gorm:"not null"`
	Goal      string    `json:"goal" gorm:"type:text"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status" gorm:"type:varchar(50);default:'Planned'"`
	ProjectID uint      `json:"project_id" gorm:"index"`

	UserStories []UserStory `json:"user_stories,omitempty" gorm:"foreignKey:SprintID"`

	// Events - церемонии спринта (daily/review/retro), создаются вместе со
	// спринтом и удаляются вместе с ним. Это единственное место, где связь
	// является владеющей.
	Events []Event `json:"events,omitempty" gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE;"`
}

// IsLate возвращает true, если спринт не завершен, а его срок уже прошел.
func (s *Sprint) IsLate(now time.Time) bool {
	return s.Status != SprintStatusCompleted && s.EndDate.Before(now)
}
