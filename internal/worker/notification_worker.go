package worker

import (
	"github.com/complaint-desk/complaint-service/internal/service"
)

// StartEventSubscribers registers every in-process event consumer on the dispatcher.
func StartEventSubscribers(notifications *service.NotificationService, analytics *service.AnalyticsService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if analytics != nil {
		analytics.RegisterHandlers()
	}
}
