package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/app/audio"
	"medscribe/internal/app/storage"
)

// MediaServiceImpl implements MediaService over the two blob stores.
type MediaServiceImpl struct {
	uploads   storage.UploadStore
	speech    storage.SpeechStore
	validator *audio.Validator
	logger    *zap.Logger
}

// NewMediaService creates the audio streaming service.
func NewMediaService(
	uploads storage.UploadStore,
	speech storage.SpeechStore,
	validator *audio.Validator,
	logger *zap.Logger,
) MediaService {
	return &MediaServiceImpl{
		uploads:   uploads,
		speech:    speech,
		validator: validator,
		logger:    logger,
	}
}

// OpenUploadedAudio streams a raw uploaded recording.
func (s *MediaServiceImpl) OpenUploadedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	return s.open(ctx, s.uploads, filename)
}

// OpenSynthesizedAudio streams a text-to-speech artifact.
func (s *MediaServiceImpl) OpenSynthesizedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	return s.open(ctx, s.speech, filename)
}

func (s *MediaServiceImpl) open(ctx context.Context, store storage.BlobStore, filename string) (io.ReadCloser, string, error) {
	// Names are flat keys; anything with a path separator reads as missing
	// rather than leaking why it was refused.
	if filename == "" || filename != filepath.Base(filename) {
		return nil, "", apierrors.NewNotFoundError("Audio file")
	}

	rc, err := store.Open(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", apierrors.NewNotFoundError("Audio file")
	}
	if err != nil {
		s.logger.Error("open audio blob failed", zap.String("blob", filename), zap.Error(err))
		return nil, "", apierrors.NewInternalError("Internal server error")
	}

	if err := s.validator.ValidateFilename(filename); err != nil {
		rc.Close()
		return nil, "", apierrors.NewBadRequestError("Unsupported file format: "+filepath.Ext(filename)).
			WithCode(apierrors.CodeUnsupportedFormat).
			WithDetails(map[string]any{"allowed_extensions": s.validator.AllowedExtensions()})
	}

	return rc, audio.ContentType(filename), nil
}
