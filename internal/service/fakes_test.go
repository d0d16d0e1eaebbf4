package service

import (
	"context"
	"time"

	"chatroom-backend/internal/model"
	"chatroom-backend/internal/repository"
)

// In-memory UserStore / RoomStore implementations mirroring the Postgres
// repositories' contracts (sentinel errors, idempotent member insert,
// serial message ids).

type memUserStore struct {
	users map[string]*model.User // by id
	rooms *memRoomStore
}

type memRoomStore struct {
	rooms    map[string]*model.Chatroom
	names    map[string]string // name -> room id
	members  map[string][]string
	messages map[string][]model.Message
	users    *memUserStore
	nextID   int64
}

func newMemStores() (*memUserStore, *memRoomStore) {
	us := &memUserStore{users: make(map[string]*model.User)}
	rs := &memRoomStore{
		rooms:    make(map[string]*model.Chatroom),
		names:    make(map[string]string),
		members:  make(map[string][]string),
		messages: make(map[string][]model.Message),
		users:    us,
	}
	us.rooms = rs
	return us, rs
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) JoinedRoomIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for roomID, members := range s.rooms.members {
		for _, m := range members {
			if m == userID {
				ids = append(ids, roomID)
			}
		}
	}
	return ids, nil
}

func (s *memRoomStore) Create(_ context.Context, room *model.Chatroom, creatorID string) error {
	if _, taken := s.names[room.Name]; taken {
		return repository.ErrDuplicate
	}
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	cp := *room
	s.rooms[room.ID] = &cp
	s.names[room.Name] = room.ID
	s.members[room.ID] = []string{creatorID}
	return nil
}

func (s *memRoomStore) GetByID(_ context.Context, roomID string) (*model.Chatroom, error) {
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memRoomStore) GetDetail(ctx context.Context, roomID string) (*model.Chatroom, error) {
	room, err := s.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, uid := range s.members[roomID] {
		name := ""
		if u, ok := s.users.users[uid]; ok {
			name = u.Username
		}
		room.Members = append(room.Members, model.RoomMember{UserID: uid, Username: name})
	}
	return room, nil
}

func (s *memRoomStore) List(_ context.Context) ([]model.RoomSummary, error) {
	var summaries []model.RoomSummary
	for id, r := range s.rooms {
		summaries = append(summaries, model.RoomSummary{
			ID:          id,
			Name:        r.Name,
			MemberCount: len(s.members[id]),
			CreatedAt:   r.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *memRoomStore) AddMember(_ context.Context, roomID, userID string) (bool, error) {
	for _, m := range s.members[roomID] {
		if m == userID {
			return false, nil
		}
	}
	s.members[roomID] = append(s.members[roomID], userID)
	s.rooms[roomID].UpdatedAt = time.Now()
	return true, nil
}

func (s *memRoomStore) IsMember(_ context.Context, roomID, userID string) (bool, error) {
	for _, m := range s.members[roomID] {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memRoomStore) AppendMessage(_ context.Context, msg *model.Message) error {
	s.nextID++
	msg.ID = s.nextID
	msg.CreatedAt = time.Now()
	s.messages[msg.RoomID] = append(s.messages[msg.RoomID], *msg)
	s.rooms[msg.RoomID].UpdatedAt = msg.CreatedAt
	return nil
}

func (s *memRoomStore) ListMessages(_ context.Context, roomID string) ([]model.Message, error) {
	msgs := make([]model.Message, len(s.messages[roomID]))
	copy(msgs, s.messages[roomID])
	return msgs, nil
}
