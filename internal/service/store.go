package service

import (
	"context"

	"chatroom-backend/internal/model"
)

// UserStore and RoomStore are the persistence surfaces the services consume.
// internal/repository implements them on Postgres; tests use in-memory
// fakes. Not-found and uniqueness failures are reported with
// repository.ErrNotFound and repository.ErrDuplicate.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	JoinedRoomIDs(ctx context.Context, userID string) ([]string, error)
}

type RoomStore interface {
	Create(ctx context.Context, room *model.Chatroom, creatorID string) error
	GetByID(ctx context.Context, roomID string) (*model.Chatroom, error)
	GetDetail(ctx context.Context, roomID string) (*model.Chatroom, error)
	List(ctx context.Context) ([]model.RoomSummary, error)
	AddMember(ctx context.Context, roomID, userID string) (bool, error)
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
	AppendMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, roomID string) ([]model.Message, error)
}
