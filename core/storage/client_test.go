package storage_test

import (
	"testing"

	"odf-core/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestPublicURL(t *testing.T) {
	cfg := storage.Config{Endpoint: "http://localhost:9000", Bucket: "assets"}
	assert.Equal(t, "http://localhost:9000/assets/flags/HUN.png", storage.PublicURL(cfg, "flags/HUN.png"))

	cfg = storage.Config{Endpoint: "s3.amazonaws.com", Bucket: "assets", UseSSL: true}
	assert.Equal(t, "https://s3.amazonaws.com/assets/flags/HUN.png", storage.PublicURL(cfg, "flags/HUN.png"))
}
