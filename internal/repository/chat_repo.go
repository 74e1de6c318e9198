package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

// ChatRepository provides data access for chats, participants and messages.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{db: tx}
}

// ChatActivity is the per-chat summary shown in the chat list.
type ChatActivity struct {
	LastMessage  *db.Message
	MessageCount int64
	UnreadCount  int64
}

// Create inserts the chat and one participant row per user id.
// lastRead starts at the join time.
func (r *ChatRepository) Create(ctx context.Context, chat *db.Chat, userIDs []string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Omit("Idea", "Participants").Create(chat).Error; err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	parts := make([]db.ChatParticipant, 0, len(userIDs))
	for _, uid := range userIDs {
		parts = append(parts, db.ChatParticipant{UserID: uid, ChatID: chat.ID, JoinedAt: now, LastRead: now})
	}
	return tx.Omit("User").Create(&parts).Error
}

func (r *ChatRepository) FindByID(ctx context.Context, id string) (*db.Chat, error) {
	var c db.Chat
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindDetail loads a chat with participants, their users and the idea owner.
func (r *ChatRepository) FindDetail(ctx context.Context, id string) (*db.Chat, error) {
	var c db.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants", func(q *gorm.DB) *gorm.DB {
			return q.Order("joined_at ASC, user_id ASC")
		}).
		Preload("Participants.User").
		Preload("Idea").
		Preload("Idea.User").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IsParticipant reports whether userID belongs to chatID.
func (r *ChatRepository) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&n).Error
	return n > 0, err
}

// ParticipantIDs lists the members of a chat.
func (r *ChatRepository) ParticipantIDs(ctx context.Context, chatID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("chat_id = ?", chatID).
		Order("joined_at ASC, user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListForUser returns the user's chats, most recent activity first, with
// participants (and their users) and the idea owner loaded.
func (r *ChatRepository) ListForUser(ctx context.Context, userID string) ([]db.Chat, error) {
	mine := r.db.Model(&db.ChatParticipant{}).Select("chat_id").Where("user_id = ?", userID)

	var chats []db.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Participants.User").
		Preload("Idea").
		Preload("Idea.User").
		Where("id IN (?)", mine).
		Order("updated_at DESC, id DESC").
		Find(&chats).Error
	return chats, err
}

// Activity summarises one chat from the point of view of userID.
// Unread counts messages from others newer than lastRead.
func (r *ChatRepository) Activity(ctx context.Context, chatID, userID string, lastRead time.Time) (ChatActivity, error) {
	var act ChatActivity
	tx := r.db.WithContext(ctx)

	var last db.Message
	res := tx.Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&last)
	if res.Error != nil {
		return act, res.Error
	}
	if res.RowsAffected == 1 {
		act.LastMessage = &last
	}

	if err := tx.Model(&db.Message{}).Where("chat_id = ?", chatID).Count(&act.MessageCount).Error; err != nil {
		return act, err
	}
	err := tx.Model(&db.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND created_at > ?", chatID, userID, lastRead).
		Count(&act.UnreadCount).Error
	return act, err
}

// CreateMessage inserts msg and bumps the chat's updated_at.
//
// MySQL reports changed rows, not matched rows, so a second message in the
// same millisecond updates nothing. Zero rows only means ErrStaleRow when
// the chat is really gone.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *db.Message) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Omit("Sender").Create(msg).Error; err != nil {
		return err
	}
	res := tx.Model(&db.Chat{}).Where("id = ?", msg.ChatID).Update("updated_at", msg.CreatedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := tx.Model(&db.Chat{}).Where("id = ?", msg.ChatID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleRow
	}
	return nil
}

// MarkRead moves the participant's read marker to at.
func (r *ChatRepository) MarkRead(ctx context.Context, chatID, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("last_read", at).Error
}

// ListMessages returns up to limit messages older than the cursor, in
// chronological order, and the cursor for the next (older) page.
//
// Behavior:
//   - Rows are scanned newest first by (created_at, id) then reversed.
//   - nextToken is nil when there is nothing older.
//
// Example:
//
//	msgs, next, err := repo.ListMessages(ctx, chatID, nil, 50)
func (r *ChatRepository) ListMessages(
	ctx context.Context,
	chatID string,
	before *string,
	limit int,
) ([]db.Message, *string, error) {
	cursor, err := pagination.Decode(getString(before))
	if err != nil {
		return nil, nil, err
	}

	q := r.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", ts, ts, cursor.ID)
	}

	var msgs []db.Message
	if err := q.Find(&msgs).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(msgs) > limit {
		msgs = msgs[:limit]
		last := msgs[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nextToken, nil
}
