package notify

import (
	"fmt"
	"log/slog"

	"github.com/flaboy/aira-giftcard/pkg/config"
)

// Notifier 出站通知能力：投递成功与否不影响已提交的业务写入
type Notifier interface {
	Send(recipient, subject, body string) error
	GetChannelName() string
}

var notifier Notifier

func Init() error {
	switch config.Config.Notify.Driver {
	case "sqs":
		n, err := NewSQSNotifier()
		if err != nil {
			return fmt.Errorf("failed to init sqs notifier: %w", err)
		}
		notifier = n
	case "log", "":
		notifier = &LogNotifier{}
	default:
		return fmt.Errorf("unknown notify driver: %s", config.Config.Notify.Driver)
	}
	return nil
}

func Default() Notifier {
	if notifier == nil {
		notifier = &LogNotifier{}
	}
	return notifier
}

// SetNotifier 注入自定义实现（宿主系统或测试使用）
func SetNotifier(n Notifier) {
	notifier = n
}

// LogNotifier 仅记录日志的兜底实现
type LogNotifier struct{}

func (n *LogNotifier) GetChannelName() string {
	return "log"
}

func (n *LogNotifier) Send(recipient, subject, body string) error {
	slog.Info("[Notify] Delivery (log only)", "recipient", recipient, "subject", subject)
	return nil
}
