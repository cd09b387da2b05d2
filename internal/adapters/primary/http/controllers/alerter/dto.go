package alerter

import (
	"strings"
	"time"
)

// GenericAlertPayload алерт в свободной форме
type GenericAlertPayload struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

// RailwayWebhookPayload событие деплоя Railway, берём только то, что попадает в сообщение
type RailwayWebhookPayload struct {
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Timestamp string `json:"timestamp"`
	Details   struct {
		Status        string `json:"status"`
		Branch        string `json:"branch"`
		CommitHash    string `json:"commitHash"`
		CommitAuthor  string `json:"commitAuthor"`
		CommitMessage string `json:"commitMessage"`
	} `json:"details"`
	Resource struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		Environment struct {
			Name string `json:"name"`
		} `json:"environment"`
		Service struct {
			Name string `json:"name"`
		} `json:"service"`
	} `json:"resource"`
}

const (
	maxCommitMessage = 100
	shortHashLen     = 7
)

// Message текст для чата алертов
func (p RailwayWebhookPayload) Message() string {
	var b strings.Builder

	b.WriteString("🚨 ")
	b.WriteString(formatEventType(p.Type))
	if p.Severity != "" {
		b.WriteString(" [" + p.Severity + "]")
	}
	b.WriteString("\n\n📦 ")
	b.WriteString(p.Resource.Project.Name)
	if p.Resource.Service.Name != "" {
		b.WriteString(" / " + p.Resource.Service.Name)
	}
	b.WriteString("\n")

	writeLine(&b, "🌍 Окружение: ", p.Resource.Environment.Name)
	writeLine(&b, "📊 Статус: ", strings.ToUpper(p.Details.Status))
	writeLine(&b, "🌿 Ветка: ", p.Details.Branch)

	if hash := p.Details.CommitHash; hash != "" {
		if len(hash) > shortHashLen {
			hash = hash[:shortHashLen]
		}
		if p.Details.CommitAuthor != "" {
			hash += " (" + p.Details.CommitAuthor + ")"
		}
		writeLine(&b, "🔹 Коммит: ", hash)
	}

	msg := p.Details.CommitMessage
	if len([]rune(msg)) > maxCommitMessage {
		msg = string([]rune(msg)[:maxCommitMessage]) + "..."
	}
	writeLine(&b, "💬 ", msg)

	if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
		writeLine(&b, "⏰ ", t.Format("02.01.2006 15:04:05"))
	}

	return b.String()
}

func writeLine(b *strings.Builder, prefix, value string) {
	if value == "" {
		return
	}
	b.WriteString(prefix)
	b.WriteString(value)
	b.WriteString("\n")
}

// formatEventType DEPLOY.FAILED -> Deploy Failed
func formatEventType(eventType string) string {
	parts := strings.Split(eventType, ".")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.Join(parts, " ")
}
