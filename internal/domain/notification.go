package domain

// NotificationType представляет категорию уведомления дашборда
type NotificationType string

const (
	NotificationStartToday    NotificationType = "start_today"    // бронь стартует сегодня
	NotificationStartTomorrow NotificationType = "start_tomorrow" // бронь стартует завтра
	NotificationReturnToday   NotificationType = "return_today"   // возврат ожидается сегодня
	NotificationOverdue       NotificationType = "overdue"        // возврат просрочен
)

// Severity - важность уведомления, используется только для отображения
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification - уведомление дашборда
// Состояние нигде не хранится, список считается заново на каждом запросе
type Notification struct {
	Type     NotificationType `json:"type"`
	Severity Severity         `json:"severity"`
	Rental   *Rental          `json:"rental"`
}
