// taskhive/internal/handlers/sentiment.go
package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"taskhive/config"

	"github.com/google/generative-ai-go/genai"
)

const sentimentPrompt = "Определи тональность следующего сообщения. " +
	"Ответь ровно одним словом: positive, neutral или negative.\n\nСообщение: "

// analyzeSentiment прогоняет текст через Gemini и возвращает метку тональности.
// Любая ошибка (клиент не инициализирован, сбой API, неожиданный ответ)
// деградирует в "neutral" с записью в лог - анализ не должен ломать запрос.
func analyzeSentiment(ctx context.Context, text string) string {
	if config.GeminiClient == nil {
		return "neutral"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := config.GeminiClient.GenerateContent(ctx, genai.Text(sentimentPrompt+text))
	if err != nil {
		slog.Error("Gemini sentiment request failed", "error", err)
		return "neutral"
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		slog.Warn("Gemini returned empty sentiment response")
		return "neutral"
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		textPart, ok := part.(genai.Text)
		if !ok {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(string(textPart)))
		switch label {
		case "positive", "neutral", "negative":
			return label
		}
	}

	slog.Warn("Gemini returned unrecognized sentiment label")
	return "neutral"
}
