package audio

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/config"
)

func newTestValidator() *Validator {
	return NewValidator(config.StorageConfig{
		AllowedAudioExtensions: []string{".wav", ".MP3", ".m4a", ".flac"},
		MaxUploadSize:          1000,
	})
}

func TestValidateFilename(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "mp3", filename: "note.mp3", wantErr: false},
		{name: "uppercase extension", filename: "NOTE.WAV", wantErr: false},
		{name: "flac", filename: "visit.flac", wantErr: false},
		{name: "ogg rejected", filename: "note.ogg", wantErr: true},
		{name: "no extension", filename: "note", wantErr: true},
		{name: "empty name", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFilename(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateSize(999))
	assert.NoError(t, v.ValidateSize(1000))

	err := v.ValidateSize(1001)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestSecureName(t *testing.T) {
	pattern := regexp.MustCompile(`^audio_\d{14}_[0-9a-f]{32}\.mp3$`)

	name := SecureName("../../etc/Recording Of Visit.MP3")
	assert.True(t, pattern.MatchString(name), "unexpected name %q", name)
	assert.False(t, strings.Contains(name, "Recording"), "original name must not survive")

	// Two names generated back to back must not collide.
	other := SecureName("visit.mp3")
	assert.NotEqual(t, name, other)
}
