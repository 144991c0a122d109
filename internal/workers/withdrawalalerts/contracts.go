package withdrawalalerts

import (
	"context"

	"canal-panel/internal/stories/dashboard"
)

type (
	Dashboard interface {
		State() dashboard.State
	}

	TelegramNotifier interface {
		NotifyAdmins(ctx context.Context, text string) error
	}

	Translator interface {
		T(key string, params map[string]interface{}) string
	}
)
