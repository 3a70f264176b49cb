// taskhive/models/notification.go
package models

import "gorm.io/gorm"

// Notification - внутриприложенческое уведомление пользователя.
// Хранится всегда; доставка по email и websocket выполняется дополнительно
// и ее сбои не влияют на сохранение записи.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"index"`
	Message string `json:"message" gorm:"type:text;not null"`
	Read    bool   `json:"read" gorm:"default:false"`
}
