package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileSize(t *testing.T) {
	assert.Nil(t, ValidateFileSize(1))
	assert.Nil(t, ValidateFileSize(MaxAttachmentSize))

	assert.NotNil(t, ValidateFileSize(0))
	assert.NotNil(t, ValidateFileSize(-1))
	assert.NotNil(t, ValidateFileSize(MaxAttachmentSize+1))
}

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantOK   bool
	}{
		{"png image", "photo.png", "image/png", true},
		{"jpeg either extension", "photo.jpg", "image/jpeg", true},
		{"jpeg long extension", "photo.jpeg", "image/jpeg", true},
		{"pdf document", "doc.pdf", "application/pdf", true},
		{"mime case insensitive", "photo.PNG", "IMAGE/PNG", true},
		{"extension mime mismatch", "photo.png", "image/jpeg", false},
		{"unsupported mime", "clip.mp4", "video/mp4", false},
		{"no extension", "README", "text/plain", false},
		{"unknown extension", "archive.rar", "application/zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileType(tt.fileName, tt.mimeType)
			if tt.wantOK {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func TestIsImageMIME(t *testing.T) {
	assert.True(t, IsImageMIME("image/png"))
	assert.True(t, IsImageMIME("IMAGE/JPEG"))
	assert.False(t, IsImageMIME("application/pdf"))
	assert.False(t, IsImageMIME(""))
}
