package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/bahikhata/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ReceiptStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ReceiptStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKey: "test-key",
			SecretKey: "test-secret",
		}
		_, err := NewS3ReceiptStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			SecretKey: "test-secret",
		}
		_, err := NewS3ReceiptStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
		}
		_, err := NewS3ReceiptStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates store", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:       "test-bucket",
			AccessKey:    "test-key",
			SecretKey:    "test-secret",
			Endpoint:     "localhost:9000",
			UsePathStyle: true,
		}
		store, err := NewS3ReceiptStore(cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", store.Bucket())
	})

	t.Run("empty key rejected on every operation", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
			SecretKey: "test-secret",
		}
		store, err := NewS3ReceiptStore(cfg)
		require.NoError(t, err)

		ctx := context.Background()
		assert.Error(t, store.Upload(ctx, "", []byte("x"), "application/pdf"))
		_, err = store.Download(ctx, "")
		assert.Error(t, err)
		assert.Error(t, store.Delete(ctx, ""))
	})
}

func TestMemoryReceiptStore(t *testing.T) {
	ctx := context.Background()

	t.Run("upload download delete round trip", func(t *testing.T) {
		store := NewMemoryReceiptStore()
		key := "receipts/c1/20250314_x.pdf"

		require.NoError(t, store.Upload(ctx, key, []byte("pdf-bytes"), "application/pdf"))
		assert.True(t, store.Has(key))

		data, err := store.Download(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf-bytes"), data)

		require.NoError(t, store.Delete(ctx, key))
		assert.False(t, store.Has(key))
		assert.Equal(t, []string{key}, store.Deleted)
	})

	t.Run("missing key is typed not found", func(t *testing.T) {
		store := NewMemoryReceiptStore()
		_, err := store.Download(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrAttachmentNotFound)
	})

	t.Run("injected faults surface", func(t *testing.T) {
		store := NewMemoryReceiptStore()
		boom := errors.New("storage down")
		store.FailUpload = boom
		assert.ErrorIs(t, store.Upload(ctx, "k", nil, ""), boom)

		store.FailUpload = nil
		store.FailDelete = boom
		require.NoError(t, store.Upload(ctx, "k", []byte("x"), ""))
		assert.ErrorIs(t, store.Delete(ctx, "k"), boom)
		// The failed delete is still recorded for assertions.
		assert.Equal(t, []string{"k"}, store.Deleted)
	})
}
