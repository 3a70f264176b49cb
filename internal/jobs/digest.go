// taskhive/internal/jobs/digest.go
package jobs

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskhive/config"
	"taskhive/models"

	"github.com/robfig/cron/v3"
)

// StartScheduler запускает планировщик фоновых задач.
// Возвращенный cron можно остановить при завершении приложения.
func StartScheduler() *cron.Cron {
	c := cron.New()

	// Ежедневный дайджест в 07:00
	if _, err := c.AddFunc("0 7 * * *", RunDailyDigest); err != nil {
		slog.Error("Не удалось зарегистрировать задачу дайджеста", "error", err)
		return c
	}

	c.Start()
	slog.Info("Планировщик фоновых задач запущен.")
	return c
}

// RunDailyDigest рассылает каждому пользователю письмо со сводкой:
// задачи с дедлайном в ближайшие сутки и просроченные спринты его проектов.
// Сбой по отдельному пользователю логируется и не прерывает рассылку.
func RunDailyDigest() {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		slog.Error("Дайджест: не удалось получить пользователей", "error", err)
		return
	}

	now := time.Now()
	for _, user := range users {
		body, empty := buildDigestBody(user, now)
		if empty {
			continue
		}
		if err := config.SendMail(user.Email, "TaskHive: ежедневная сводка", body); err != nil {
			slog.Error("Дайджест: не удалось отправить письмо", "error", err, "user_id", user.ID)
		}
	}
	slog.Info("Рассылка ежедневного дайджеста завершена.")
}

// buildDigestBody собирает текст сводки. Второй результат true, если
// пользователю нечего отправлять.
func buildDigestBody(user models.User, now time.Time) (string, bool) {
	var projectIDs []uint
	config.DB.Model(&models.ProjectMember{}).Where("user_id = ?", user.ID).Pluck("project_id", &projectIDs)
	if len(projectIDs) == 0 {
		return "", true
	}

	var dueTasks []models.Task
	config.DB.Where("assigned_to_id = ? AND status <> ? AND due_date IS NOT NULL AND due_date <= ?",
		user.ID, "Done", now.Add(24*time.Hour)).Find(&dueTasks)

	var lateSprints []models.Sprint
	config.DB.Where("project_id IN ? AND status <> ? AND end_date < ?",
		projectIDs, models.SprintStatusCompleted, now).Find(&lateSprints)

	if len(dueTasks) == 0 && len(lateSprints) == 0 {
		return "", true
	}

	var b strings.Builder
	b.WriteString("<p>Здравствуйте, " + user.FullName + "!</p>")

	if len(dueTasks) > 0 {
		b.WriteString("<p>Задачи с приближающимся сроком:</p><ul>")
		for _, task := range dueTasks {
			b.WriteString(fmt.Sprintf("<li>%s (до %s)</li>", task.Title, task.DueDate.Format("2006-01-02")))
		}
		b.WriteString("</ul>")
	}

	if len(lateSprints) > 0 {
		b.WriteString("<p>Просроченные спринты:</p><ul>")
		for _, sprint := range lateSprints {
			b.WriteString(fmt.Sprintf("<li>%s (должен был завершиться %s)</li>",
				sprint.Title, sprint.EndDate.Format("2006-01-02")))
		}
		b.WriteString("</ul>")
	}

	return b.String(), false
}
