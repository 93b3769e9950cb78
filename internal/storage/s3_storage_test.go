package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Storage_PresignBundleImage(t *testing.T) {
	s := NewS3Storage("ap-south-1", "bundle-assets", "AKIDEXAMPLE", "secret", "https://cdn.example.com/")

	resp, err := s.PresignBundleImage(context.Background(), "bndl_1", "Hero.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "bundles/bndl_1/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
	assert.Contains(t, resp.UploadURL, "bundle-assets")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestS3Storage_DirectFileURL(t *testing.T) {
	s := NewS3Storage("ap-south-1", "bundle-assets", "AKIDEXAMPLE", "secret", "")

	assert.Equal(t, "https://bundle-assets.s3.ap-south-1.amazonaws.com/bundles/x.png", s.fileURL("bundles/x.png"))
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(1024, 2048))
	assert.Error(t, ValidateFileSize(4096, 2048))
	assert.Error(t, ValidateFileSize(0, 2048))
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"image/png", "image/jpeg"}
	assert.NoError(t, ValidateContentType("image/png", allowed))
	assert.Error(t, ValidateContentType("application/pdf", allowed))
}
