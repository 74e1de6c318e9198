package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback actions.
const (
	ActionLike     = "like"
	ActionPass     = "pass"
	ActionDetailed = "detailed"
)

// Notification types.
const (
	NotificationMessage  = "MESSAGE"
	NotificationSystem   = "SYSTEM"
	NotificationFeedback = "FEEDBACK"
)

// Idea statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusFeatured  = "FEATURED"
	StatusArchived  = "ARCHIVED"
)

// Idea media types.
const (
	MediaText  = "TEXT"
	MediaAudio = "AUDIO"
	MediaVideo = "VIDEO"
	MediaMixed = "MIXED"
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Model is embedded by every table keyed by a UUID string.
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns a random UUID when the caller did not set one.
func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// User table.
// Points, FeedbackCount and IdeasCount are only ever changed with
// storage-side increments (col = col + ?).
type User struct {
	Model
	Name          string     `gorm:"size:128;not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255" json:"-"`
	Image         *string    `gorm:"size:512" json:"image"`
	Role          string     `gorm:"size:16;not null" json:"role"`
	EmailVerified *time.Time `json:"emailVerified"`
	Points        int64      `gorm:"not null;index" json:"points"`
	FeedbackCount int64      `gorm:"not null" json:"feedbackCount"`
	IdeasCount    int64      `gorm:"not null" json:"ideasCount"`
	LastActive    *time.Time `json:"lastActive"`
}

// Idea is a submitted concept open to community feedback.
type Idea struct {
	Model
	UserID         string     `gorm:"size:36;not null;index" json:"userId"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	Problem        string     `gorm:"type:text;not null" json:"problem"`
	Solution       string     `gorm:"type:text;not null" json:"solution"`
	TargetAudience *string    `gorm:"type:text" json:"targetAudience"`
	MarketSize     *string    `gorm:"type:text" json:"marketSize"`
	Competition    *string    `gorm:"type:text" json:"competition"`
	BusinessModel  *string    `gorm:"type:text" json:"businessModel"`
	MediaURLs      *string    `gorm:"type:text" json:"mediaUrls"`
	AudioURL       *string    `gorm:"size:512" json:"audioUrl"`
	VideoURL       *string    `gorm:"size:512" json:"videoUrl"`
	MediaType      string     `gorm:"size:16;not null" json:"mediaType"`
	Status         string     `gorm:"size:16;not null;index" json:"status"`
	IsAnonymous    bool       `gorm:"not null" json:"isAnonymous"`
	Upvotes        int64      `gorm:"not null" json:"upvotes"`
	Downvotes      int64      `gorm:"not null" json:"downvotes"`
	Views          int64      `gorm:"not null" json:"views"`
	Tags           []Tag      `gorm:"many2many:idea_tags;" json:"tags"`
	Feedbacks      []Feedback `gorm:"foreignKey:IdeaID" json:"-"`
	AISummary      *AISummary `gorm:"foreignKey:IdeaID" json:"aiSummary"`
}

// Tag is a label shared between ideas, unique by name.
type Tag struct {
	Model
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

// Feedback represents a reviewer's reaction to an idea.
//
// Unique index: idx_feedback_idea_user(idea_id, user_id)
//   - Ensures a single row per (idea, reviewer) pair.
//   - The submit workflow relies on it: a conflicting insert means "edit", not "new".
//
// Fields:
//   - Action: like | pass | detailed.
//   - Rating: optional 1..5.
//   - Tags: comma-joined accepted tags.
type Feedback struct {
	Model
	IdeaID  string  `gorm:"size:36;not null;uniqueIndex:idx_feedback_idea_user,priority:1" json:"ideaId"`
	Idea    Idea    `gorm:"foreignKey:IdeaID" json:"-"`
	UserID  string  `gorm:"size:36;not null;uniqueIndex:idx_feedback_idea_user,priority:2;index" json:"userId"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Action  string  `gorm:"size:16;not null;index" json:"action"`
	Rating  *int    `json:"rating"`
	Comment *string `gorm:"type:text" json:"comment"`
	Tags    *string `gorm:"size:1024" json:"tags"`
}

// Notification is a user-addressed message about an event.
type Notification struct {
	Model
	UserID    string  `gorm:"size:36;not null;index:idx_notification_user_read,priority:1" json:"userId"`
	Type      string  `gorm:"size:16;not null" json:"type"`
	Title     string  `gorm:"size:255;not null" json:"title"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	RelatedID *string `gorm:"size:36" json:"relatedId"`
	IsRead    bool    `gorm:"not null;index:idx_notification_user_read,priority:2" json:"isRead"`
}

// Reward is something users can buy with points.
type Reward struct {
	Model
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	PointsCost  int64   `gorm:"not null;index" json:"pointsCost"`
	ImageURL    *string `gorm:"size:512" json:"imageUrl"`
	IsAvailable bool    `gorm:"not null" json:"isAvailable"`
}

// Redemption records a reward bought by a user; PointsCost is the price at that time.
type Redemption struct {
	Model
	UserID     string `gorm:"size:36;not null;index" json:"userId"`
	RewardID   string `gorm:"size:36;not null" json:"rewardId"`
	Reward     Reward `gorm:"foreignKey:RewardID" json:"reward"`
	PointsCost int64  `gorm:"not null" json:"pointsCost"`
}

// Chat groups participants, optionally around an idea.
type Chat struct {
	Model
	Name         *string           `gorm:"size:128" json:"name"`
	IdeaID       *string           `gorm:"size:36;index" json:"ideaId"`
	Idea         *Idea             `gorm:"foreignKey:IdeaID" json:"-"`
	Participants []ChatParticipant `gorm:"foreignKey:ChatID" json:"-"`
}

// ChatParticipant links a user to a chat.
//
// Composite PK: (UserID, ChatID). LastRead drives unread counters.
type ChatParticipant struct {
	UserID   string    `gorm:"primaryKey;size:36" json:"userId"`
	ChatID   string    `gorm:"primaryKey;size:36;index" json:"chatId"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
	LastRead time.Time `gorm:"not null" json:"lastRead"`
}

// Message is a chat message.
type Message struct {
	Model
	ChatID   string `gorm:"size:36;not null;index" json:"chatId"`
	SenderID string `gorm:"size:36;not null" json:"senderId"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

// AISummary holds the generated SWOT analysis, one per idea.
type AISummary struct {
	Model
	IdeaID        string `gorm:"size:36;not null;uniqueIndex" json:"ideaId"`
	Content       string `gorm:"type:text;not null" json:"content"`
	Strengths     string `gorm:"type:text;not null" json:"strengths"`
	Weaknesses    string `gorm:"type:text;not null" json:"weaknesses"`
	Opportunities string `gorm:"type:text;not null" json:"opportunities"`
	Threats       string `gorm:"type:text;not null" json:"threats"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Idea{}, &Tag{}, &Feedback{}, &Notification{},
		&Reward{}, &Redemption{}, &Chat{}, &ChatParticipant{}, &Message{}, &AISummary{},
	}
}
