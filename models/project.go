// taskhive/models/project.go
package models

import "gorm.io/gorm"

// Project представляет модель проекта - корневой контейнер для спринтов,
// задач, бэклогов, форума и Q&A.
type Project struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	OwnerID     uint   `json:"owner_id"`

	// InviteCode - уникальный код приглашения в проект (используется для QR-кода).
	InviteCode string `json:"invite_code" gorm:"uniqueIndex"`

	Members  []ProjectMember `json:"members,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
	Sprints  []Sprint        `json:"sprints,omitempty" gorm:"foreignKey:ProjectID"`
	Backlogs []Backlog       `json:"backlogs,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectMember связывает пользователя с проектом.
type ProjectMember struct {
	gorm.Model
	ProjectID uint   `json:"project_id" gorm:"index:idx_project_user,unique"`
	UserID    uint   `json:"user_id" gorm:"index:idx_project_user,unique"`
	Role      string `json:"role" gorm:"type:varchar(50);default:'member'"` // 'owner', 'member'
	User      User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
