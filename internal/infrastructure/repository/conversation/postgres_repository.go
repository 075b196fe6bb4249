package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/infrastructure/database/entities"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

// Repository persists conversations and messages in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateConversation inserts the conversation record.
func (r *Repository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"create-conversation-error",
		)
	}

	conv.CreatedAt = entity.CreatedAt
	return nil
}

// GetOwnedConversation fetches a conversation scoped to its owner. Ownership
// is part of the query so a foreign conversation is reported as NOT_FOUND
// rather than forbidden.
func (r *Repository) GetOwnedConversation(ctx context.Context, id uuid.UUID, ownerID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"get-conversation-error",
		)
	}
	return entity.EtoD(), nil
}

// ListConversations returns the owner's conversations newest-first.
func (r *Repository) ListConversations(ctx context.Context, ownerID string) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"list-conversations-error",
		)
	}

	result := make([]*domain.Conversation, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// DeleteConversation removes an owned conversation; messages cascade via the
// foreign key constraint.
func (r *Repository) DeleteConversation(ctx context.Context, id uuid.UUID, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&entities.Conversation{})
	if res.Error != nil {
		return platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			res.Error,
			"delete-conversation-error",
		)
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// AppendMessage inserts a single message row.
func (r *Repository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	entity, err := entities.NewSchemaMessage(msg)
	if err != nil {
		return platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode message",
			err,
			"encode-message-error",
		)
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append message",
			err,
			"append-message-error",
		)
	}

	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListMessages returns a conversation's messages oldest-first.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*domain.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"list-messages-error",
		)
	}

	result := make([]*domain.Message, len(rows))
	for i := range rows {
		msg, err := rows[i].EtoD()
		if err != nil {
			return nil, platformerrors.NewError(
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode message",
				err,
				"decode-message-error",
			)
		}
		result[i] = msg
	}
	return result, nil
}

func notFound(id uuid.UUID) *platformerrors.PlatformError {
	return platformerrors.NewError(
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("conversation not found: %s", id),
		nil,
		"conversation-not-found",
	)
}
