// taskhive/models/user.go
package models

import "gorm.io/gorm"

// User представляет модель пользователя системы.
type User struct {
	gorm.Model
	FullName     string `json:"full_name"`
	Login        string `json:"login" gorm:"unique;not null"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"default:false"`

	// GoogleToken хранит сериализованный oauth2.Token для синхронизации календаря.
	// Пустая строка означает, что пользователь не подключал Google-аккаунт.
	GoogleToken string `json:"-" gorm:"type:text"`
}
