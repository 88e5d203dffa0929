package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"allo/internal/models"
)

// --- fakes ---

type fakeChatRepo struct {
	chats map[primitive.ObjectID]*models.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[primitive.ObjectID]*models.Chat)}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = chat.CreatedAt
	stored := *chat
	r.chats[chat.ID] = &stored
	return chat, nil
}

func (r *fakeChatRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	out := []models.Chat{}
	for _, c := range r.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) FindByIDAndUser(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeChatRepo) UpdateTitle(ctx context.Context, chatID, userID primitive.ObjectID, title string) (*models.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	c.Title = title
	c.UpdatedAt = time.Now()
	copied := *c
	return &copied, nil
}

func (r *fakeChatRepo) Touch(ctx context.Context, chatID primitive.ObjectID) error {
	if c, ok := r.chats[chatID]; ok {
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, chatID primitive.ObjectID) error {
	delete(r.chats, chatID)
	return nil
}

type fakeMessageRepo struct {
	messages []models.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return message, nil
}

func (r *fakeMessageRepo) FindByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

// --- tests ---

func TestCreateChat_DefaultTitle(t *testing.T) {
	svc := NewChatService(newFakeChatRepo(), &fakeMessageRepo{})

	chat, err := svc.CreateChat(context.Background(), primitive.NewObjectID(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", chat.Title)
}

func TestGetChat_ForeignChatIsNotFound(t *testing.T) {
	chatRepo := newFakeChatRepo()
	svc := NewChatService(chatRepo, &fakeMessageRepo{})
	ctx := context.Background()

	owner := primitive.NewObjectID()
	chat, err := svc.CreateChat(ctx, owner, "mine")
	require.NoError(t, err)

	_, _, err = svc.GetChat(ctx, primitive.NewObjectID(), chat.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	found, messages, err := svc.GetChat(ctx, owner, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)
	assert.Empty(t, messages)
}

func TestRenameChat(t *testing.T) {
	chatRepo := newFakeChatRepo()
	svc := NewChatService(chatRepo, &fakeMessageRepo{})
	ctx := context.Background()

	owner := primitive.NewObjectID()
	chat, err := svc.CreateChat(ctx, owner, "old")
	require.NoError(t, err)

	_, err = svc.RenameChat(ctx, owner, chat.ID, "   ")
	assert.ErrorIs(t, err, models.ErrValidation)

	renamed, err := svc.RenameChat(ctx, owner, chat.ID, "  new title  ")
	require.NoError(t, err)
	assert.Equal(t, "new title", renamed.Title)

	_, err = svc.RenameChat(ctx, owner, primitive.NewObjectID(), "whatever")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteChat_RemovesMessages(t *testing.T) {
	chatRepo := newFakeChatRepo()
	messageRepo := &fakeMessageRepo{}
	svc := NewChatService(chatRepo, messageRepo)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	chat, err := svc.CreateChat(ctx, owner, "doomed")
	require.NoError(t, err)
	require.NoError(t, svc.AppendExchange(ctx, owner, chat.ID, "hi", "hello"))

	require.NoError(t, svc.DeleteChat(ctx, owner, chat.ID))
	assert.Empty(t, messageRepo.messages)
	assert.Empty(t, chatRepo.chats)

	assert.ErrorIs(t, svc.DeleteChat(ctx, owner, chat.ID), models.ErrNotFound)
}

func TestAppendExchange(t *testing.T) {
	chatRepo := newFakeChatRepo()
	messageRepo := &fakeMessageRepo{}
	svc := NewChatService(chatRepo, messageRepo)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	chat, err := svc.CreateChat(ctx, owner, "talk")
	require.NoError(t, err)

	err = svc.AppendExchange(ctx, primitive.NewObjectID(), chat.ID, "hi", "hello")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.AppendExchange(ctx, owner, chat.ID, "hi", "hello"))

	messages, err := messageRepo.FindByChat(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, "hello", messages[1].Content)
}
