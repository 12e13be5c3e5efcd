package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
)

// ConversationRepository handles conversation persistence
type ConversationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *pgxpool.Pool, logger *logrus.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a new conversation into the database
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, check_id)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		conversation.ID,
		conversation.CheckID,
	).Scan(&conversation.CreatedAt, &conversation.UpdatedAt)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"conversation_id": conversation.ID,
			"check_id":        conversation.CheckID,
			"error":           err,
		}).Error("Failed to create conversation")
		return fmt.Errorf("creating conversation: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"conversation_id": conversation.ID,
		"check_id":        conversation.CheckID,
	}).Info("Conversation created successfully")

	return nil
}

// GetByID retrieves a conversation by its ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, check_id, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	var conversation domain.Conversation

	err := r.db.QueryRow(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.CheckID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("conversation not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"conversation_id": id,
			"error":           err,
		}).Error("Failed to get conversation by ID")
		return nil, fmt.Errorf("getting conversation by ID: %w", err)
	}

	return &conversation, nil
}

// GetByCheckID retrieves the conversation attached to a symptom check
func (r *ConversationRepository) GetByCheckID(ctx context.Context, checkID string) (*domain.Conversation, error) {
	query := `
		SELECT id, check_id, created_at, updated_at
		FROM conversations
		WHERE check_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var conversation domain.Conversation

	err := r.db.QueryRow(ctx, query, checkID).Scan(
		&conversation.ID,
		&conversation.CheckID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("conversation not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"check_id": checkID,
			"error":    err,
		}).Error("Failed to get conversation by check ID")
		return nil, fmt.Errorf("getting conversation by check ID: %w", err)
	}

	return &conversation, nil
}

// AppendMessage stores one conversation turn and touches the conversation
func (r *ConversationRepository) AppendMessage(ctx context.Context, message *domain.ConversationMessage) error {
	query := `
		INSERT INTO conversation_messages (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		message.ConversationID,
		message.Role,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"conversation_id": message.ConversationID,
			"role":            message.Role,
			"error":           err,
		}).Error("Failed to append conversation message")
		return fmt.Errorf("appending conversation message: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`,
		message.ConversationID)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}

	return nil
}

// GetMessages retrieves a conversation's messages in chronological order
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM conversation_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"conversation_id": conversationID,
			"error":           err,
		}).Error("Failed to get conversation messages")
		return nil, fmt.Errorf("getting conversation messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ConversationMessage
	for rows.Next() {
		var message domain.ConversationMessage

		err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"conversation_id": conversationID,
				"error":           err,
			}).Error("Failed to scan conversation message row")
			return nil, fmt.Errorf("scanning conversation message row: %w", err)
		}

		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversation message rows: %w", err)
	}

	return messages, nil
}

// Delete removes a conversation and its messages
func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM conversations WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"conversation_id": id,
			"error":           err,
		}).Error("Failed to delete conversation")
		return fmt.Errorf("deleting conversation: %w", err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("conversation not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"conversation_id": id,
	}).Info("Conversation deleted successfully")

	return nil
}
