package notification_handler

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	notificationlog "github.com/fatflowers/sololvlup/internal/app/service/notification_log"
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	"github.com/fatflowers/sololvlup/internal/platform/paypal"
)

func provideNotificationHandler(client *paypal.Client, payments *payment.Service, leads *lead.Service, notif *notificationlog.Service, log *zap.SugaredLogger) *NotificationHandler {
	return NewNotificationHandler(client, payments, leads, notif, log)
}

var Module = fx.Options(
	fx.Provide(provideNotificationHandler),
)
