package enum

// ModerationAction tags an entry in the moderation audit log.
type ModerationAction string

const (
	ModerationActionPinTopic    ModerationAction = "pin_topic"
	ModerationActionUnpinTopic  ModerationAction = "unpin_topic"
	ModerationActionLockTopic   ModerationAction = "lock_topic"
	ModerationActionUnlockTopic ModerationAction = "unlock_topic"
	ModerationActionMoveTopic   ModerationAction = "move_topic"
	ModerationActionMergeTopics ModerationAction = "merge_topics"
	ModerationActionDeleteTopic ModerationAction = "delete_topic"
	ModerationActionDeleteReply ModerationAction = "delete_reply"
	ModerationActionWarnUser    ModerationAction = "warn_user"
	ModerationActionSuspendUser ModerationAction = "suspend_user"
	ModerationActionBanUser     ModerationAction = "ban_user"
	ModerationActionUnbanUser   ModerationAction = "unban_user"
)

// TargetType identifies what kind of entity a moderation action or report points at.
type TargetType string

const (
	TargetTypeTopic TargetType = "topic"
	TargetTypeReply TargetType = "reply"
	TargetTypeUser  TargetType = "user"
)

// Valid reports whether the value is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetTypeTopic, TargetTypeReply, TargetTypeUser:
		return true
	}
	return false
}
