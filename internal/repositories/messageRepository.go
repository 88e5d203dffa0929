package repositories

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"allo/internal/database"
	"allo/internal/models"
	"allo/internal/utils"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	// FindByChat returns the chat's messages sorted by created_at ascending.
	FindByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error)
	DeleteByChat(ctx context.Context, chatID primitive.ObjectID) error
}

type messageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db database.Service) MessageRepository {
	return &messageRepository{collection: db.Database().Collection("messages")}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	queryType := "create"
	repository := "message"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) FindByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error) {
	queryType := "findByChat"
	repository := "message"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) error {
	queryType := "deleteByChat"
	repository := "message"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection.DeleteMany(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
	}
	return err
}
