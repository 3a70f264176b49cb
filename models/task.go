// taskhive/models/task.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Task представляет задачу проекта.
type Task struct {
	gorm.Model
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Status       string     `json:"status" gorm:"type:varchar(50);default:'To Do'"`
	Priority     string     `json:"priority" gorm:"type:varchar(50);default:'Medium'"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ProjectID    uint       `json:"project_id" gorm:"index"`
	AssignedToID *uint      `json:"assigned_to_id,omitempty"`

	History []TaskHistory `json:"history,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE;"`
}

// TaskHistory - запись об изменении одного поля задачи.
// При обновлении задачи создается по одной записи на каждое измененное поле.
type TaskHistory struct {
	gorm.Model
	TaskID   uint   `json:"task_id" gorm:"index"`
	UserID   uint   `json:"user_id"`
	Field    string `json:"field" gorm:"type:varchar(50)"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}
