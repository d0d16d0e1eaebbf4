package repository

import (
	"context"

	"chatroom-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatroomRepository struct {
	pool *pgxpool.Pool
}

func NewChatroomRepository(pool *pgxpool.Pool) *ChatroomRepository {
	return &ChatroomRepository{pool: pool}
}

// Create inserts the room and its creator's membership in one transaction.
// The room id must already be set. Returns ErrDuplicate when the name is
// taken (exact, case-sensitive match against the unique index).
func (r *ChatroomRepository) Create(ctx context.Context, room *model.Chatroom, creatorID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chatrooms (id, name)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING created_at, updated_at
	`, room.ID, room.Name).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrDuplicate
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chatroom_members (room_id, user_id) VALUES ($1, $2)
	`, room.ID, creatorID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ChatroomRepository) GetByID(ctx context.Context, roomID string) (*model.Chatroom, error) {
	room := &model.Chatroom{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM chatrooms WHERE id = $1
	`, roomID).Scan(&room.ID, &room.Name, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetDetail returns the room with its member list resolved to display names.
func (r *ChatroomRepository) GetDetail(ctx context.Context, roomID string) (*model.Chatroom, error) {
	room, err := r.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT m.user_id, u.username, m.joined_at
		FROM chatroom_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.room_id = $1
		ORDER BY m.joined_at ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.RoomMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.JoinedAt); err != nil {
			return nil, err
		}
		room.Members = append(room.Members, m)
	}
	return room, rows.Err()
}

// List returns the summary projection for every room, oldest first.
func (r *ChatroomRepository) List(ctx context.Context) ([]model.RoomSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM chatroom_members WHERE room_id = c.id)
		FROM chatrooms c
		ORDER BY c.created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.RoomSummary
	for rows.Next() {
		var s model.RoomSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.MemberCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// AddMember is idempotent: joining a room twice is a no-op. Returns true
// when a membership row was actually inserted; only then is the room's
// update timestamp refreshed.
func (r *ChatroomRepository) AddMember(ctx context.Context, roomID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO chatroom_members (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, roomID, userID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx, `UPDATE chatrooms SET updated_at = NOW() WHERE id = $1`, roomID)
	return true, err
}

func (r *ChatroomRepository) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chatroom_members WHERE room_id = $1 AND user_id = $2)
	`, roomID, userID).Scan(&exists)
	return exists, err
}

// AppendMessage stores a message and refreshes the room's update timestamp
// in the same transaction. The serial id assigned by the insert is the
// message's position in the room's log; it is written back into msg along
// with the storage timestamp.
func (r *ChatroomRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chatroom_messages (room_id, user_id, sender_name, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.RoomID, msg.UserID, msg.Username, msg.Text).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE chatrooms SET updated_at = $2 WHERE id = $1
	`, msg.RoomID, msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListMessages returns the full log for a room in append order.
func (r *ChatroomRepository) ListMessages(ctx context.Context, roomID string) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, user_id, sender_name, text, created_at
		FROM chatroom_messages
		WHERE room_id = $1
		ORDER BY id ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
