package enum

// TopicType classifies what kind of discussion a topic hosts.
type TopicType string

const (
	TopicTypeDiscussion   TopicType = "discussion"
	TopicTypeQuestion     TopicType = "question"
	TopicTypeShowcase     TopicType = "showcase"
	TopicTypeTutorial     TopicType = "tutorial"
	TopicTypeAnnouncement TopicType = "announcement"
	TopicTypePaper        TopicType = "paper"
)

// Valid reports whether the value is a known topic type.
func (t TopicType) Valid() bool {
	switch t {
	case TopicTypeDiscussion, TopicTypeQuestion, TopicTypeShowcase,
		TopicTypeTutorial, TopicTypeAnnouncement, TopicTypePaper:
		return true
	}
	return false
}

// TopicStatus represents the lifecycle state of a topic.
type TopicStatus string

const (
	// TopicStatusActive is the normal visible state.
	TopicStatusActive TopicStatus = "active"
	// TopicStatusArchived marks soft-deleted and merged-away topics.
	TopicStatusArchived TopicStatus = "archived"
)

// TopicSort selects the ordering of topic listings.
type TopicSort string

const (
	TopicSortNewest TopicSort = "newest"
	TopicSortTop    TopicSort = "top"
	TopicSortViews  TopicSort = "views"
)

// Valid reports whether the value is a known sort order.
func (s TopicSort) Valid() bool {
	switch s {
	case TopicSortNewest, TopicSortTop, TopicSortViews:
		return true
	}
	return false
}

// ReplySort selects the ordering of reply trees.
type ReplySort string

const (
	ReplySortOldest ReplySort = "oldest"
	ReplySortNewest ReplySort = "newest"
	ReplySortTop    ReplySort = "top"
)

// Valid reports whether the value is a known sort order.
func (s ReplySort) Valid() bool {
	switch s {
	case ReplySortOldest, ReplySortNewest, ReplySortTop:
		return true
	}
	return false
}
