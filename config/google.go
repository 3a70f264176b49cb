// FILE: config/google.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var (
	GeminiClient *genai.GenerativeModel

	// GoogleOAuthConfig - конфигурация OAuth для доступа к Google Calendar.
	// Если переменные окружения не заданы, синхронизация календаря отключена.
	GoogleOAuthConfig *oauth2.Config
)

// InitGoogleServices инициализирует клиенты для работы с Gemini API
// и OAuth-конфигурацию для Google Calendar.
func InitGoogleServices() error {
	ctx := context.Background()

	// Инициализация Gemini
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("unable to create Gemini client: %v", err)
	}
	GeminiClient = client.GenerativeModel("gemini-1.5-flash")
	slog.Info("Gemini API client initialized successfully.")

	// Инициализация OAuth для Google Calendar
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		slog.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET не заданы, синхронизация календаря отключена.")
		return nil
	}

	GoogleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     googleoauth.Endpoint,
	}
	slog.Info("Google Calendar OAuth config initialized.")

	return nil
}
