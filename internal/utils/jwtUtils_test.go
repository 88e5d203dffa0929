package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := []byte("secret")
	id := primitive.NewObjectID()

	token, err := GenerateJWT(id, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.ID)
}

func TestParseJWT_RejectsExpiredToken(t *testing.T) {
	secret := []byte("secret")

	token, err := GenerateJWT(primitive.NewObjectID(), secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, secret)
	assert.Error(t, err)
}

func TestParseJWT_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(primitive.NewObjectID(), []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, []byte("another secret"))
	assert.Error(t, err)
}

func TestParseJWT_RejectsGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", []byte("secret"))
	assert.Error(t, err)

	_, err = ParseJWT("", []byte("secret"))
	assert.Error(t, err)
}
