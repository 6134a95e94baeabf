package shared

// Communication permissions.
const (
	PermChatAccess        = "chat.access"
	PermChatBroadcast     = "chat.broadcast"
	PermNotificationsSend = "notifications.send"
)

// Reporting permissions.
const (
	PermReportsView   = "reports.view"
	PermReportsExport = "reports.export"
	PermAnalyticsView = "analytics.view"
)

// CommunicationScopes lists all communication permissions.
func CommunicationScopes() []string {
	return []string{
		PermChatAccess,
		PermChatBroadcast,
		PermNotificationsSend,
	}
}

// ReportingScopes lists all reporting permissions.
func ReportingScopes() []string {
	return []string{
		PermReportsView,
		PermReportsExport,
		PermAnalyticsView,
	}
}
