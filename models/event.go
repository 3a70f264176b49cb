// taskhive/models/event.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Роли автоматически сгенерированных церемоний спринта.
const (
	EventKindDaily  = "daily"
	EventKindReview = "review"
	EventKindRetro  = "retro"
	EventKindNone   = "none"
)

const (
	EventTypeMeeting = "Meeting"
	EventRepeatNone  = "None"
)

// Event представляет событие календаря. Для сгенерированных церемоний
// поле Kind указывает роль события, Date - календарный день (время обнулено),
// StartTime/EndTime - полные метки времени в пределах этого дня.
type Event struct {
	gorm.Model
	Title     string    `json:"title" gorm:"not null"`
	Type      string    `json:"type" gorm:"type:varchar(50);default:'Meeting'"`
	Kind      string    `json:"kind" gorm:"type:varchar(20);default:'none'"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Repeat    string    `json:"repeat" gorm:"type:varchar(20);default:'None'"`

	ProjectID uint  `json:"project_id" gorm:"index"`
	SprintID  *uint `json:"sprint_id,omitempty" gorm:"index"`
	OwnerID   uint  `json:"owner_id"`

	// GoogleEventID - идентификатор события во внешнем календаре.
	// Пустая строка означает, что событие еще не синхронизировано.
	GoogleEventID string `json:"google_event_id,omitempty"`
}
