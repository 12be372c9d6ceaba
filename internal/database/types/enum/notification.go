package enum

// NotificationType identifies what event a notification describes.
type NotificationType string

const (
	NotificationTypeMention        NotificationType = "mention"
	NotificationTypeReplyToTopic   NotificationType = "reply_to_topic"
	NotificationTypeReplyToReply   NotificationType = "reply_to_reply"
	NotificationTypeAcceptedAnswer NotificationType = "accepted_answer"
	NotificationTypeTopicLocked    NotificationType = "topic_locked"
	NotificationTypeWarning        NotificationType = "warning"
	NotificationTypeSuspension     NotificationType = "suspension"
	NotificationTypeReportResolved NotificationType = "report_resolved"
	NotificationTypeBadgeAwarded   NotificationType = "badge_awarded"
	NotificationTypeLevelUp        NotificationType = "level_up"
)
