// taskhive/config/mail.go
package config

import (
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

var (
	mailDialer *gomail.Dialer
	mailFrom   string
)

// InitMailer настраивает SMTP-клиент для отправки почтовых уведомлений.
// Если SMTP_HOST не задан, отправка писем отключается (уведомления остаются только в приложении).
func InitMailer() {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		slog.Warn("Переменная окружения SMTP_HOST не установлена, отправка писем отключена.")
		return
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	mailDialer = gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	mailFrom = os.Getenv("SMTP_FROM")
	if mailFrom == "" {
		mailFrom = os.Getenv("SMTP_USER")
	}
	slog.Info("SMTP-клиент инициализирован", "host", host, "port", port)
}

// SendMail отправляет письмо указанному получателю.
// Возвращает ошибку вызывающему, но решение "логировать или пробрасывать" остается за ним.
func SendMail(to, subject, body string) error {
	if mailDialer == nil {
		slog.Warn("Попытка отправить письмо при отключенном SMTP", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", mailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return mailDialer.DialAndSend(m)
}
