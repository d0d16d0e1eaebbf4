package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"chatroom-backend/internal/cache"
	"chatroom-backend/internal/model"
	"chatroom-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound   = errors.New("chatroom not found")
	ErrRoomExists     = errors.New("chatroom already exists")
	ErrNameTooShort   = errors.New("room name must be at least 3 characters")
	ErrNotMember      = errors.New("not a member of this chatroom")
	ErrSenderNotFound = errors.New("user not found")
	ErrEmptyMessage   = errors.New("message text is required")
	ErrMessageTooLong = errors.New("message must be at most 1000 characters")
)

const maxMessageLen = 1000

// ChatroomService orchestrates rooms, membership and the message log. Every
// operation is a single check-then-act sequence; membership is checked
// fresh on every send and read, so a join-then-send race resolves cleanly.
type ChatroomService struct {
	rooms     RoomStore
	users     UserStore
	listCache *cache.RoomListCache // nil when Redis is not configured
}

func NewChatroomService(rooms RoomStore, users UserStore, listCache *cache.RoomListCache) *ChatroomService {
	return &ChatroomService{rooms: rooms, users: users, listCache: listCache}
}

// Create makes a new room whose sole member is the caller. Name uniqueness
// is case-sensitive exact match.
func (s *ChatroomService) Create(ctx context.Context, callerID, name string) (*model.Chatroom, error) {
	clean := strings.TrimSpace(name)
	if utf8.RuneCountInString(clean) < 3 {
		return nil, ErrNameTooShort
	}

	room := &model.Chatroom{
		ID:   uuid.New().String(),
		Name: clean,
	}
	if err := s.rooms.Create(ctx, room, callerID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoomExists
		}
		return nil, err
	}

	s.invalidateListCache(ctx)

	return s.rooms.GetDetail(ctx, room.ID)
}

func (s *ChatroomService) Get(ctx context.Context, roomID string) (*model.Chatroom, error) {
	room, err := s.rooms.GetDetail(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// List returns the summary projection, served from the cache when one is
// configured. A cache failure degrades to a direct read.
func (s *ChatroomService) List(ctx context.Context) ([]model.RoomSummary, error) {
	if s.listCache != nil {
		summaries, hit, err := s.listCache.Get(ctx)
		if err != nil {
			log.Printf("[Rooms] list cache read failed: %v", err)
		} else if hit {
			return summaries, nil
		}
	}

	summaries, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, summaries); err != nil {
			log.Printf("[Rooms] list cache write failed: %v", err)
		}
	}
	return summaries, nil
}

// Join adds the caller to the room. Joining a room twice is a no-op that
// returns the current room state.
func (s *ChatroomService) Join(ctx context.Context, callerID, roomID string) (*model.Chatroom, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	added, err := s.rooms.AddMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if added {
		s.invalidateListCache(ctx)
	}

	return s.rooms.GetDetail(ctx, roomID)
}

// SendMessage appends to the room's log. The sender must be a member; the
// sender's display name is captured on the message at send time.
func (s *ChatroomService) SendMessage(ctx context.Context, callerID, roomID, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return nil, ErrMessageTooLong
	}

	sender, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSenderNotFound
		}
		return nil, err
	}

	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	member, err := s.rooms.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	msg := &model.Message{
		RoomID:   roomID,
		UserID:   sender.ID,
		Username: sender.Username,
		Text:     text,
	}
	if err := s.rooms.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns the room's full log in append order. Only members may
// read it.
func (s *ChatroomService) Messages(ctx context.Context, callerID, roomID string) ([]model.Message, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	member, err := s.rooms.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	return s.rooms.ListMessages(ctx, roomID)
}

// invalidateListCache drops the cached summary projection. The write that
// triggered it already succeeded, so a cache failure is logged and the
// request proceeds; the entry also ages out by TTL.
func (s *ChatroomService) invalidateListCache(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx); err != nil {
		log.Printf("[Rooms] list cache invalidate failed: %v", err)
	}
}
