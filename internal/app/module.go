package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/sololvlup/internal/app/api/server"
	"github.com/fatflowers/sololvlup/internal/app/service/contact"
	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	notificationhandler "github.com/fatflowers/sololvlup/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/sololvlup/internal/app/service/notification_log"
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	"github.com/fatflowers/sololvlup/internal/app/service/statistics"
	"github.com/fatflowers/sololvlup/internal/platform/cache"
	"github.com/fatflowers/sololvlup/internal/platform/db"
	"github.com/fatflowers/sololvlup/internal/platform/paypal"
	"github.com/fatflowers/sololvlup/pkg/config"
	"github.com/fatflowers/sololvlup/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	paypal.Module,
	server.Module,
	payment.Module,
	statistics.Module,
	contact.Module,
	lead.Module,
	notificationlog.Module,
	notificationhandler.Module,
)
