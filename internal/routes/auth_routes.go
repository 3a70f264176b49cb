package routes

import (
	"taskhive/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты для аутентификации.
// Эти маршруты не требуют middleware для проверки токена.
func RegisterAuthRoutes(r *gin.Engine) {
	// Обработка формы входа.
	r.POST("/login", handlers.LoginHandler)

	// Выход пользователя из системы.
	r.GET("/logout", handlers.LogoutHandler)

	// Регистрация нового пользователя.
	r.POST("/register", handlers.RegisterHandler)
}
