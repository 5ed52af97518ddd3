package services

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/api"
	"medscribe/internal/app/storage"
)

// SpeechServiceImpl implements SpeechService.
type SpeechServiceImpl struct {
	synthesizer api.Synthesizer
	speech      storage.SpeechStore
	audit       AuditService
	logger      *zap.Logger
}

// NewSpeechService creates the text-to-speech service. The synthesizer may
// be nil when no provider is configured.
func NewSpeechService(
	synthesizer api.Synthesizer,
	speech storage.SpeechStore,
	audit AuditService,
	logger *zap.Logger,
) SpeechService {
	return &SpeechServiceImpl{
		synthesizer: synthesizer,
		speech:      speech,
		audit:       audit,
		logger:      logger,
	}
}

// Synthesize renders text into an mp3 artifact and stores it under a fresh
// random name. Clients fetch the result through the playback URL.
func (s *SpeechServiceImpl) Synthesize(ctx context.Context, userID uint, req *dto.SynthesizeRequest) (*dto.SynthesizeResponse, error) {
	if s.synthesizer == nil {
		return nil, apierrors.NewServiceUnavailableError("Speech synthesis service not available")
	}

	data, err := s.synthesizer.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		return nil, apierrors.NewBadGatewayError("Speech synthesis failed: " + err.Error()).
			WithCode(apierrors.CodeSynthesisError)
	}

	name := uuid.New().String() + ".mp3"
	if err := s.speech.Save(ctx, name, bytes.NewReader(data), int64(len(data)), "audio/mpeg"); err != nil {
		return nil, apierrors.NewInternalError("Failed to store synthesized audio")
	}

	s.audit.Record(ctx, userID, "speech", 0, "synthesize", "Synthesized speech artifact: "+name)
	s.logger.Info("speech synthesized",
		zap.Uint("user_id", userID),
		zap.String("blob", name),
		zap.Int("bytes", len(data)),
	)

	return &dto.SynthesizeResponse{
		Message:  "Speech generated successfully",
		Filename: name,
		URL:      "/api/tts/" + name,
	}, nil
}
