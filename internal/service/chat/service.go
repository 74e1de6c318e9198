package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/service/view"
	"github.com/oggyb/ideaji/internal/utils/pagination"
	"github.com/oggyb/ideaji/internal/validation"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

var ErrNotParticipant = svcErr.Forbidden("you are not a participant in this chat")

type Service struct {
	appCtx           *app.AppContext
	chatRepo         *repository.ChatRepository
	userRepo         *repository.UserRepository
	ideaRepo         *repository.IdeaRepository
	notificationRepo *repository.NotificationRepository
}

func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:           appCtx,
		chatRepo:         repository.NewChatRepository(appCtx.DB),
		userRepo:         repository.NewUserRepository(appCtx.DB),
		ideaRepo:         repository.NewIdeaRepository(appCtx.DB),
		notificationRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

type CreateInput struct {
	Name         *string  `json:"name" validate:"omitempty,max=128"`
	IdeaID       *string  `json:"ideaId"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
}

type SendInput struct {
	Content string `json:"content" validate:"required"`
}

// IdeaRef is the idea a chat is about, owner masked when anonymous.
type IdeaRef struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	IsAnonymous bool         `json:"isAnonymous"`
	User        view.UserRef `json:"user"`
}

type ParticipantView struct {
	UserID   string       `json:"userId"`
	JoinedAt time.Time    `json:"joinedAt"`
	LastRead time.Time    `json:"lastRead"`
	User     view.UserRef `json:"user"`
}

type MessageView struct {
	db.Message
	Sender view.UserRef `json:"sender"`
}

// View is a chat as listed for one user.
type View struct {
	db.Chat
	Idea         *IdeaRef          `json:"idea"`
	Participants []ParticipantView `json:"participants"`
	LastMessage  *MessageView      `json:"lastMessage"`
	MessageCount int64             `json:"messageCount"`
	UnreadCount  int64             `json:"unreadCount"`
}

type MessagesResult struct {
	Messages   []MessageView `json:"messages"`
	NextCursor *string       `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
}

// List returns the user's chats, most recent activity first.
func (s *Service) List(ctx context.Context, userID string) ([]View, error) {
	chats, err := s.chatRepo.ListForUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("list chats failed", "user", userID, "err", err)
		return nil, svcErr.Internal("failed to fetch chats", err)
	}

	out := make([]View, 0, len(chats))
	for _, c := range chats {
		v, err := s.toView(ctx, c, userID)
		if err != nil {
			return nil, svcErr.Internal("failed to fetch chats", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Create opens a chat between the caller and participants.
//
// Behavior:
//   - The creator is always a participant; duplicate ids collapse.
//   - Every other participant gets a SYSTEM "New Chat" notification in the
//     same transaction.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (*View, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	members := uniqueWith(in.Participants, creatorID)

	if in.IdeaID != nil && *in.IdeaID != "" {
		if _, err := s.ideaRepo.FindByID(ctx, *in.IdeaID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("idea not found")
		} else if err != nil {
			return nil, svcErr.Internal("failed to fetch idea", err)
		}
	} else {
		in.IdeaID = nil
	}

	existing, err := s.userRepo.ExistingIDs(ctx, members)
	if err != nil {
		return nil, svcErr.Internal("failed to check participants", err)
	}
	if len(existing) != len(members) {
		return nil, svcErr.InvalidInput("one or more participants do not exist", map[string]string{
			"participants": "must reference existing users",
		})
	}

	creator, err := s.userRepo.FindByID(ctx, creatorID)
	if err != nil {
		return nil, svcErr.Internal("failed to fetch user", err)
	}

	chat := &db.Chat{Name: in.Name, IdeaID: in.IdeaID}
	others := without(members, creatorID)

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.chatRepo.WithTx(tx).Create(ctx, chat, members); err != nil {
			return err
		}
		content := senderName(creator) + " added you to a chat"
		if chat.Name != nil && *chat.Name != "" {
			content += fmt.Sprintf(" %q", *chat.Name)
		}
		return s.notificationRepo.WithTx(tx).Create(ctx, notify(others, db.NotificationSystem, "New Chat", content, chat.ID)...)
	})
	if err != nil {
		s.appCtx.Logger.Error("create chat failed", "user", creatorID, "err", err)
		return nil, svcErr.Internal("failed to create chat", err)
	}
	s.appCtx.InvalidateUnread(ctx, others...)

	loaded, err := s.chatRepo.FindDetail(ctx, chat.ID)
	if err != nil {
		return nil, svcErr.Internal("failed to load chat", err)
	}
	v, err := s.toView(ctx, *loaded, creatorID)
	if err != nil {
		return nil, svcErr.Internal("failed to load chat", err)
	}
	return &v, nil
}

// Send posts a message. The sender's read marker moves to the message and
// every other participant gets a MESSAGE notification.
func (s *Service) Send(ctx context.Context, senderID, chatID string, in SendInput) (*MessageView, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, svcErr.Internal("failed to fetch user", err)
	}

	msg := &db.Message{ChatID: chatID, SenderID: senderID, Content: in.Content}
	var others []string

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := s.chatRepo.WithTx(tx)
		if err := chats.CreateMessage(ctx, msg); err != nil {
			return err
		}
		if err := chats.MarkRead(ctx, chatID, senderID, msg.CreatedAt); err != nil {
			return err
		}
		ids, err := chats.ParticipantIDs(ctx, chatID)
		if err != nil {
			return err
		}
		others = without(ids, senderID)
		content := senderName(sender) + " sent you a message"
		return s.notificationRepo.WithTx(tx).Create(ctx, notify(others, db.NotificationMessage, "New Message", content, msg.ID)...)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleRow) {
			return nil, svcErr.Conflict("chat no longer exists", err)
		}
		s.appCtx.Logger.Error("send message failed", "chat", chatID, "err", err)
		return nil, svcErr.Internal("failed to send message", err)
	}
	s.appCtx.InvalidateUnread(ctx, others...)

	return &MessageView{Message: *msg, Sender: view.Ref(*sender)}, nil
}

// Messages returns a page of messages in chronological order and marks the
// chat as read for the caller. before is the nextCursor of a previous page.
func (s *Service) Messages(ctx context.Context, userID, chatID, before string, limit int) (*MessagesResult, error) {
	if err := s.requireParticipant(ctx, chatID, userID); err != nil {
		return nil, err
	}
	if _, err := pagination.Decode(before); err != nil {
		return nil, svcErr.InvalidInput("invalid cursor", map[string]string{"before": "is invalid"})
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}

	var cursor *string
	if before != "" {
		cursor = &before
	}
	msgs, next, err := s.chatRepo.ListMessages(ctx, chatID, cursor, limit)
	if err != nil {
		s.appCtx.Logger.Error("list messages failed", "chat", chatID, "err", err)
		return nil, svcErr.Internal("failed to fetch messages", err)
	}

	if err := s.chatRepo.MarkRead(ctx, chatID, userID, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
		s.appCtx.Logger.Warn("mark chat read failed", "chat", chatID, "user", userID, "err", err)
	}

	out := &MessagesResult{Messages: make([]MessageView, 0, len(msgs)), NextCursor: next, HasMore: next != nil}
	for _, m := range msgs {
		out.Messages = append(out.Messages, MessageView{Message: m, Sender: view.Ref(m.Sender)})
	}
	return out, nil
}

func (s *Service) requireParticipant(ctx context.Context, chatID, userID string) error {
	ok, err := s.chatRepo.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return svcErr.Internal("failed to check chat membership", err)
	}
	if !ok {
		return ErrNotParticipant
	}
	return nil
}

func (s *Service) toView(ctx context.Context, c db.Chat, userID string) (View, error) {
	v := View{Chat: c, Participants: make([]ParticipantView, 0, len(c.Participants))}

	lastRead := time.Time{}
	for _, p := range c.Participants {
		v.Participants = append(v.Participants, ParticipantView{
			UserID:   p.UserID,
			JoinedAt: p.JoinedAt,
			LastRead: p.LastRead,
			User:     view.Ref(p.User),
		})
		if p.UserID == userID {
			lastRead = p.LastRead
		}
	}

	if c.Idea != nil {
		v.Idea = &IdeaRef{
			ID:          c.Idea.ID,
			Title:       c.Idea.Title,
			IsAnonymous: c.Idea.IsAnonymous,
			User:        view.Owner(*c.Idea),
		}
	}

	act, err := s.chatRepo.Activity(ctx, c.ID, userID, lastRead)
	if err != nil {
		return v, err
	}
	v.MessageCount = act.MessageCount
	v.UnreadCount = act.UnreadCount
	if act.LastMessage != nil {
		v.LastMessage = &MessageView{Message: *act.LastMessage, Sender: view.Ref(act.LastMessage.Sender)}
	}
	return v, nil
}

func notify(userIDs []string, kind, title, content, relatedID string) []*db.Notification {
	ns := make([]*db.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		rel := relatedID
		ns = append(ns, &db.Notification{
			UserID:    uid,
			Type:      kind,
			Title:     title,
			Content:   content,
			RelatedID: &rel,
		})
	}
	return ns
}

func senderName(u *db.User) string {
	if u.Name == "" {
		return "Someone"
	}
	return u.Name
}

// uniqueWith returns ids without duplicates or blanks, with extra appended if missing.
func uniqueWith(ids []string, extra string) []string {
	seen := make(map[string]struct{}, len(ids)+1)
	out := make([]string, 0, len(ids)+1)
	for _, id := range append(append([]string{}, ids...), extra) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
