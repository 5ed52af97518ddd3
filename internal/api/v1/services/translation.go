package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/api"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

// maxChunkChars caps the text sent to a provider in one call. Longer texts
// are split on sentence boundaries and the translated chunks rejoined.
const maxChunkChars = 5000

// supportedLanguages is the set of language codes accepted for translation.
var supportedLanguages = []string{"en", "es", "fr", "de", "it", "pt", "zh", "ja", "ko", "ar"}

// medicalGlossaries holds the static terminology lookups per language pair.
var medicalGlossaries = map[string]map[string]string{
	"en:es": {
		"anesthesia":        "anestesia",
		"biopsy":            "biopsia",
		"cardiologist":      "cardiólogo",
		"diagnosis":         "diagnóstico",
		"electrocardiogram": "electrocardiograma",
		"fever":             "fiebre",
		"glucose":           "glucosa",
		"hypertension":      "hipertensión",
		"infection":         "infección",
		"jaundice":          "ictericia",
	},
	"en:fr": {
		"anesthesia":        "anesthésie",
		"biopsy":            "biopsie",
		"cardiologist":      "cardiologue",
		"diagnosis":         "diagnostic",
		"electrocardiogram": "électrocardiogramme",
		"fever":             "fièvre",
		"glucose":           "glucose",
		"hypertension":      "hypertension",
		"infection":         "infection",
		"jaundice":          "jaunisse",
	},
}

// TranslationServiceImpl implements TranslationService.
type TranslationServiceImpl struct {
	translations   repository.TranslationRepository
	transcriptions repository.TranscriptionRepository
	enhanced       api.Translator
	basic          api.Translator
	audit          AuditService
	logger         *zap.Logger
}

// NewTranslationService creates the translation service. Either translator
// may be nil; requests fall back to the other and fail with a service
// unavailable error when neither is configured.
func NewTranslationService(
	translations repository.TranslationRepository,
	transcriptions repository.TranscriptionRepository,
	enhanced api.Translator,
	basic api.Translator,
	audit AuditService,
	logger *zap.Logger,
) TranslationService {
	return &TranslationServiceImpl{
		translations:   translations,
		transcriptions: transcriptions,
		enhanced:       enhanced,
		basic:          basic,
		audit:          audit,
		logger:         logger,
	}
}

// Create translates either an existing transcription or directly submitted
// text. Direct text gets a completed holder transcription so every
// translation row has an owner. The translation row is persisted as
// processing before the provider call and ends completed or failed.
func (s *TranslationServiceImpl) Create(ctx context.Context, userID uint, req *dto.CreateTranslationRequest) (*dto.TranslationResponse, error) {
	var (
		text   string
		source string
		holder *model.Transcription
	)

	if req.TranscriptionID != 0 {
		row, err := s.transcriptions.FindByID(ctx, req.TranscriptionID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &apierrors.APIError{
				Kind:    apierrors.KindNotFound,
				Message: "Transcription not found or does not belong to current user",
				Code:    apierrors.CodeResourceNotFound,
			}
		}
		if err != nil {
			return nil, apierrors.NewInternalError("Failed to retrieve transcription")
		}
		if strings.TrimSpace(row.Content) == "" {
			return nil, apierrors.NewBadRequestError("Transcription has no content to translate").
				WithCode(apierrors.CodeEmptyContent)
		}
		text = row.Content
		source = row.Language
		holder = row
	} else {
		text = req.Text
		source = req.SourceLanguage
		if source == "" {
			source = "en"
		}
	}

	if err := validateLanguageCode(source); err != nil {
		return nil, err
	}
	if err := validateLanguageCode(req.TargetLanguage); err != nil {
		return nil, err
	}

	// Identical languages pass the input through without a provider call,
	// so a missing provider only matters when real translation is needed.
	needsProvider := source != req.TargetLanguage
	var translator api.Translator
	if needsProvider {
		if translator = s.pickTranslator(req.WantsHighQuality()); translator == nil {
			return nil, apierrors.NewServiceUnavailableError("Translation service not available")
		}
	}

	if holder == nil {
		holder = &model.Transcription{
			Title:    fmt.Sprintf("Direct Translation %s -> %s", source, req.TargetLanguage),
			Content:  text,
			UserID:   userID,
			Language: source,
			Status:   model.StatusCompleted,
		}
		if err := s.transcriptions.Create(ctx, holder); err != nil {
			return nil, apierrors.NewInternalError("Failed to create translation")
		}
	}

	row := &model.Translation{
		TranscriptionID: holder.ID,
		SourceLanguage:  source,
		TargetLanguage:  req.TargetLanguage,
		Status:          model.StatusProcessing,
	}
	if err := s.translations.Create(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to create translation")
	}

	translated := text
	if needsProvider {
		var err error
		translated, err = s.translateChunked(ctx, translator, text, source, req.TargetLanguage)
		if err != nil {
			s.markFailed(ctx, row)
			return nil, apierrors.NewBadGatewayError("Translation failed: " + err.Error()).
				WithCode(apierrors.CodeTranslationError)
		}
	}
	if strings.TrimSpace(translated) == "" {
		s.markFailed(ctx, row)
		return nil, apierrors.NewBadGatewayError("Translation failed: empty result").
			WithCode(apierrors.CodeTranslationError)
	}

	row.Content = translated
	row.Status = model.StatusCompleted
	if err := s.translations.Update(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to update translation")
	}

	s.audit.Record(ctx, userID, "translation", row.ID, "create", "")
	s.logger.Info("translation completed",
		zap.Uint("translation_id", row.ID),
		zap.String("source_language", source),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("characters", len(translated)),
	)

	resp := dto.ToTranslationResponse(row)
	return &resp, nil
}

// Get returns one of the user's translations.
func (s *TranslationServiceImpl) Get(ctx context.Context, userID, id uint) (*dto.TranslationResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, "translation", row.ID, "retrieve", "")

	resp := dto.ToTranslationResponse(row)
	return &resp, nil
}

// Glossary returns the static medical terminology lookup for a language
// pair, or a not found error for unsupported pairs.
func (s *TranslationServiceImpl) Glossary(sourceLanguage, targetLanguage string) (map[string]string, error) {
	glossary, ok := medicalGlossaries[sourceLanguage+":"+targetLanguage]
	if !ok {
		return nil, &apierrors.APIError{
			Kind: apierrors.KindNotFound,
			Message: fmt.Sprintf("Medical glossary not available for language pair: %s to %s",
				sourceLanguage, targetLanguage),
			Code: apierrors.CodeUnsupportedLanguagePair,
		}
	}
	return glossary, nil
}

// QualityCheck scores a completed translation. The metrics are fixed
// heuristics until a scoring model backs this endpoint.
func (s *TranslationServiceImpl) QualityCheck(ctx context.Context, userID, id uint) (*dto.QualityCheckResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(row.Content) == "" {
		return nil, apierrors.NewBadRequestError("Translation has no content to check").
			WithCode(apierrors.CodeEmptyContent)
	}
	if s.enhanced == nil {
		return nil, apierrors.NewServiceUnavailableError("AI quality check service not available")
	}

	s.audit.Record(ctx, userID, "translation", row.ID, "quality-check", "")

	return &dto.QualityCheckResponse{
		TranslationID: row.ID,
		QualityCheck: dto.QualityMetrics{
			FluencyScore:     0.85,
			AccuracyScore:    0.92,
			TerminologyScore: 0.88,
			OverallQuality:   "good",
			Suggestions: []string{
				"Consider reviewing medical terminology for more precise translations",
				"Check formatting of numbered lists to ensure consistency",
			},
		},
	}, nil
}

// pickTranslator resolves the provider for one request, falling back to
// whichever translator is configured when the preferred one is not.
func (s *TranslationServiceImpl) pickTranslator(highQuality bool) api.Translator {
	if highQuality {
		if s.enhanced != nil {
			return s.enhanced
		}
		return s.basic
	}
	if s.basic != nil {
		return s.basic
	}
	return s.enhanced
}

// translateChunked splits oversized text on sentence boundaries and
// translates chunk by chunk, rejoining the results in order.
func (s *TranslationServiceImpl) translateChunked(ctx context.Context, translator api.Translator, text, source, target string) (string, error) {
	if len(text) <= maxChunkChars {
		return translator.Translate(ctx, text, source, target)
	}

	chunks := splitIntoChunks(text, maxChunkChars)
	s.logger.Info("translating oversized text in chunks",
		zap.Int("characters", len(text)), zap.Int("chunks", len(chunks)))

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part, err := translator.Translate(ctx, chunk, source, target)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ""), nil
}

// splitIntoChunks groups sentences into chunks of at most size characters.
// Sentence-ending ! and ? collapse to periods so the splitter has a single
// delimiter to work with.
func splitIntoChunks(text string, size int) []string {
	sentences := strings.Split(strings.NewReplacer("!", ".", "?", ".").Replace(text), ".")

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if len(current)+len(sentence)+1 > size {
			chunks = append(chunks, current)
			current = sentence + "."
		} else {
			current += sentence + "."
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func validateLanguageCode(code string) error {
	if !lo.Contains(supportedLanguages, code) {
		return apierrors.NewBadRequestError("Unsupported language code: " + code).
			WithCode(apierrors.CodeUnsupportedLanguage).
			WithDetails(map[string]any{"supported_languages": supportedLanguages})
	}
	return nil
}

func (s *TranslationServiceImpl) findOwned(ctx context.Context, userID, id uint) (*model.Translation, error) {
	row, err := s.translations.FindByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierrors.NewNotFoundError("Translation")
	}
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to retrieve translation")
	}
	return row, nil
}

func (s *TranslationServiceImpl) markFailed(ctx context.Context, row *model.Translation) {
	row.Status = model.StatusFailed
	if err := s.translations.Update(ctx, row); err != nil {
		s.logger.Warn("failed to mark translation as failed",
			zap.Uint("translation_id", row.ID), zap.Error(err))
	}
}
