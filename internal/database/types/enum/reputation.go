package enum

// ReputationEvent identifies why a ledger entry was appended.
type ReputationEvent string

const (
	// ReputationEventTopicCreated is awarded when a topic is published.
	ReputationEventTopicCreated ReputationEvent = "topic_created"
	// ReputationEventReplyCreated is awarded when a reply is posted.
	ReputationEventReplyCreated ReputationEvent = "reply_created"
	// ReputationEventAcceptedAnswer is awarded when a reply is marked as the accepted answer.
	ReputationEventAcceptedAnswer ReputationEvent = "accepted_answer"
	// ReputationEventAcceptedAnswerRevoked reverses a previous accepted-answer award.
	ReputationEventAcceptedAnswerRevoked ReputationEvent = "accepted_answer_revoked"
	// ReputationEventUpvoteReceived is awarded to an author when their content is upvoted.
	ReputationEventUpvoteReceived ReputationEvent = "upvote_received"
	// ReputationEventDownvoteReceived is deducted from an author when their content is downvoted.
	ReputationEventDownvoteReceived ReputationEvent = "downvote_received"
	// ReputationEventUpvoteRemoved reverses an earlier upvote award.
	ReputationEventUpvoteRemoved ReputationEvent = "upvote_removed"
	// ReputationEventDownvoteRemoved reverses an earlier downvote deduction.
	ReputationEventDownvoteRemoved ReputationEvent = "downvote_removed"
	// ReputationEventWarningPenalty is deducted when a moderator warns the user.
	ReputationEventWarningPenalty ReputationEvent = "warning_penalty"
	// ReputationEventSuspensionPenalty is deducted when a moderator suspends the user.
	ReputationEventSuspensionPenalty ReputationEvent = "suspension_penalty"
)

// ReputationLevel is the named tier derived from a user's total points.
type ReputationLevel string

const (
	ReputationLevelNewcomer    ReputationLevel = "newcomer"
	ReputationLevelContributor ReputationLevel = "contributor"
	ReputationLevelExpert      ReputationLevel = "expert"
	ReputationLevelMaster      ReputationLevel = "master"
	ReputationLevelLegend      ReputationLevel = "legend"
)
