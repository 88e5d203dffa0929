package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"allo/internal/models"
	"allo/internal/repositories"
)

const defaultChatTitle = "New Chat"

type ChatService interface {
	CreateChat(ctx context.Context, userID primitive.ObjectID, title string) (*models.Chat, error)
	ListChats(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error)
	GetChat(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, []models.Message, error)
	RenameChat(ctx context.Context, userID, chatID primitive.ObjectID, title string) (*models.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID primitive.ObjectID) error
	// AppendExchange persists a user message and the assistant reply to
	// a chat owned by the user and bumps its updated_at.
	AppendExchange(ctx context.Context, userID, chatID primitive.ObjectID, userMessage, assistantMessage string) error
}

type chatService struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
}

func NewChatService(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository) ChatService {
	return &chatService{chatRepo: chatRepo, messageRepo: messageRepo}
}

func (s *chatService) CreateChat(ctx context.Context, userID primitive.ObjectID, title string) (*models.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}

	chat, err := s.chatRepo.Create(ctx, &models.Chat{UserID: userID, Title: title})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat")
	}
	log.Info().Str("chat_id", chat.ID.Hex()).Str("user_id", userID.Hex()).Msg("Chat created")
	return chat, nil
}

func (s *chatService) ListChats(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	chats, err := s.chatRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats")
	}
	return chats, nil
}

func (s *chatService) GetChat(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, []models.Message, error) {
	chat, err := s.chatRepo.FindByIDAndUser(ctx, chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch chat")
	}
	if chat == nil {
		return nil, nil, models.ErrNotFound
	}

	messages, err := s.messageRepo.FindByChat(ctx, chat.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch messages")
	}
	return chat, messages, nil
}

func (s *chatService) RenameChat(ctx context.Context, userID, chatID primitive.ObjectID, title string) (*models.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}

	chat, err := s.chatRepo.UpdateTitle(ctx, chatID, userID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to update chat title")
	}
	if chat == nil {
		return nil, models.ErrNotFound
	}
	return chat, nil
}

func (s *chatService) DeleteChat(ctx context.Context, userID, chatID primitive.ObjectID) error {
	chat, err := s.chatRepo.FindByIDAndUser(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch chat")
	}
	if chat == nil {
		return models.ErrNotFound
	}

	if err := s.messageRepo.DeleteByChat(ctx, chat.ID); err != nil {
		return fmt.Errorf("failed to delete chat messages")
	}
	if err := s.chatRepo.Delete(ctx, chat.ID); err != nil {
		return fmt.Errorf("failed to delete chat")
	}
	log.Info().Str("chat_id", chat.ID.Hex()).Str("user_id", userID.Hex()).Msg("Chat deleted")
	return nil
}

func (s *chatService) AppendExchange(ctx context.Context, userID, chatID primitive.ObjectID, userMessage, assistantMessage string) error {
	chat, err := s.chatRepo.FindByIDAndUser(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch chat")
	}
	if chat == nil {
		return models.ErrNotFound
	}

	if _, err := s.messageRepo.Create(ctx, &models.Message{ChatID: chat.ID, Role: models.RoleUser, Content: userMessage}); err != nil {
		return fmt.Errorf("failed to save message")
	}
	if _, err := s.messageRepo.Create(ctx, &models.Message{ChatID: chat.ID, Role: models.RoleAssistant, Content: assistantMessage}); err != nil {
		return fmt.Errorf("failed to save message")
	}
	if err := s.chatRepo.Touch(ctx, chat.ID); err != nil {
		log.Error().Err(err).Str("chat_id", chat.ID.Hex()).Msg("Failed to bump chat updated_at")
	}
	return nil
}
