package repositories

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"allo/internal/database"
	"allo/internal/models"
	"allo/internal/utils"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	// FindByUser returns the user's chats sorted by updated_at descending.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error)
	// FindByIDAndUser returns (nil, nil) when the chat does not exist or
	// belongs to another user.
	FindByIDAndUser(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error)
	UpdateTitle(ctx context.Context, chatID, userID primitive.ObjectID, title string) (*models.Chat, error)
	Touch(ctx context.Context, chatID primitive.ObjectID) error
	Delete(ctx context.Context, chatID primitive.ObjectID) error
}

type chatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db database.Service) ChatRepository {
	return &chatRepository{collection: db.Database().Collection("chats")}
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	queryType := "create"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = chat.CreatedAt

	_, err := r.collection.InsertOne(ctx, chat)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("user_id", chat.UserID.Hex()).Msg("Failed to insert chat into database")
		return nil, err
	}
	return chat, nil
}

func (r *chatRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	queryType := "findByUser"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []models.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) FindByIDAndUser(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error) {
	queryType := "findByIdAndUser"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var chat models.Chat
	err := r.collection.FindOne(ctx, bson.M{"_id": chatID, "user_id": userID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) UpdateTitle(ctx context.Context, chatID, userID primitive.ObjectID, title string) (*models.Chat, error) {
	queryType := "updateTitle"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{"_id": chatID, "user_id": userID}
	update := bson.M{"$set": bson.M{"title": title, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var chat models.Chat
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) Touch(ctx context.Context, chatID primitive.ObjectID) error {
	queryType := "touch"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
	}
	return err
}

func (r *chatRepository) Delete(ctx context.Context, chatID primitive.ObjectID) error {
	queryType := "delete"
	repository := "chat"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": chatID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("chat_id", chatID.Hex()).Msg("Failed to delete chat")
	}
	return err
}
