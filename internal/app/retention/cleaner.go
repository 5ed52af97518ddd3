// Package retention enforces the data lifecycle policy. Records and audio
// artifacts that outlive their configured window are removed, and every
// protected-record deletion leaves an audit trail attributed to the system
// actor.
package retention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/storage"
	"medscribe/internal/config"
)

// systemUserID marks audit entries written by cleanup rather than a person.
const systemUserID = 0

// Summary reports what one cleanup run removed. Errors collects per-record
// failures; a partial run still returns the counts for what did succeed.
type Summary struct {
	TranscriptionsDeleted int      `json:"transcriptions_deleted"`
	TranslationsDeleted   int      `json:"translations_deleted"`
	FilesDeleted          int      `json:"files_deleted"`
	AuditLogsDeleted      int64    `json:"audit_logs_deleted"`
	Errors                []string `json:"errors"`
}

// Cleaner removes expired transcriptions, translations, audit logs, and
// stored audio according to the retention configuration.
type Cleaner struct {
	cfg            config.RetentionConfig
	transcriptions repository.TranscriptionRepository
	translations   repository.TranslationRepository
	audits         repository.AuditLogRepository
	uploads        storage.UploadStore
	speech         storage.SpeechStore
	logger         *zap.Logger
}

func NewCleaner(
	cfg config.RetentionConfig,
	transcriptions repository.TranscriptionRepository,
	translations repository.TranslationRepository,
	audits repository.AuditLogRepository,
	uploads storage.UploadStore,
	speech storage.SpeechStore,
	logger *zap.Logger,
) *Cleaner {
	return &Cleaner{
		cfg:            cfg,
		transcriptions: transcriptions,
		translations:   translations,
		audits:         audits,
		uploads:        uploads,
		speech:         speech,
		logger:         logger,
	}
}

// Run executes one cleanup pass. Failures on individual records are recorded
// in the summary and do not stop the pass.
func (c *Cleaner) Run(ctx context.Context) *Summary {
	summary := &Summary{Errors: []string{}}
	now := time.Now().UTC()

	c.logger.Info("starting data retention cleanup",
		zap.Int("transcription_days", c.cfg.TranscriptionDays),
		zap.Int("translation_days", c.cfg.TranslationDays),
		zap.Int("audit_log_days", c.cfg.AuditLogDays))

	expired := c.purgeTranscriptions(ctx, now, summary)
	c.purgeTranslations(ctx, now, expired, summary)
	c.purgeAuditLogs(ctx, now, summary)
	c.purgeSpeechFiles(ctx, now, summary)

	c.logger.Info("data retention cleanup complete",
		zap.Int("transcriptions_deleted", summary.TranscriptionsDeleted),
		zap.Int("translations_deleted", summary.TranslationsDeleted),
		zap.Int("files_deleted", summary.FilesDeleted),
		zap.Int64("audit_logs_deleted", summary.AuditLogsDeleted),
		zap.Int("errors", len(summary.Errors)))
	return summary
}

// purgeTranscriptions removes expired transcriptions and their uploaded
// audio. It returns the set of expired IDs so the translation pass can skip
// rows the database cascade already removed.
func (c *Cleaner) purgeTranscriptions(ctx context.Context, now time.Time, summary *Summary) map[uint]bool {
	cutoff := now.Add(-days(c.cfg.TranscriptionDays))

	rows, err := c.transcriptions.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Global error: %v", err))
		return nil
	}

	expired := make(map[uint]bool, len(rows))
	for i := range rows {
		row := &rows[i]
		expired[row.ID] = true

		// A failed or missing file never blocks removal of the record.
		if row.FilePath != "" {
			switch err := c.uploads.Delete(ctx, row.FilePath); {
			case err == nil:
				summary.FilesDeleted++
			case !errors.Is(err, storage.ErrNotFound):
				c.logger.Warn("failed to delete audio file",
					zap.String("file", row.FilePath), zap.Error(err))
			}
		}

		entry := &model.AuditLog{
			UserID:       systemUserID,
			ResourceType: "transcription",
			ResourceID:   row.ID,
			Action:       "delete",
			Description:  fmt.Sprintf("Deleted due to retention policy (%d days)", c.cfg.TranscriptionDays),
		}
		if err := c.audits.Create(ctx, entry); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error deleting transcription %d: %v", row.ID, err))
			continue
		}

		if err := c.transcriptions.HardDelete(ctx, row.ID); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error deleting transcription %d: %v", row.ID, err))
			continue
		}
		summary.TranscriptionsDeleted++
	}
	return expired
}

func (c *Cleaner) purgeTranslations(ctx context.Context, now time.Time, expiredTranscriptions map[uint]bool, summary *Summary) {
	cutoff := now.Add(-days(c.cfg.TranslationDays))

	rows, err := c.translations.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Global error: %v", err))
		return
	}

	for i := range rows {
		row := &rows[i]
		if expiredTranscriptions[row.TranscriptionID] {
			// Already gone via the parent transcription's cascade.
			continue
		}

		entry := &model.AuditLog{
			UserID:       systemUserID,
			ResourceType: "translation",
			ResourceID:   row.ID,
			Action:       "delete",
			Description:  fmt.Sprintf("Deleted due to retention policy (%d days)", c.cfg.TranslationDays),
		}
		if err := c.audits.Create(ctx, entry); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error deleting translation %d: %v", row.ID, err))
			continue
		}

		if err := c.translations.HardDelete(ctx, row.ID); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error deleting translation %d: %v", row.ID, err))
			continue
		}
		summary.TranslationsDeleted++
	}
}

func (c *Cleaner) purgeAuditLogs(ctx context.Context, now time.Time, summary *Summary) {
	cutoff := now.Add(-days(c.cfg.AuditLogDays))

	purged, err := c.audits.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error purging audit logs: %v", err))
		return
	}
	summary.AuditLogsDeleted = purged
}

// purgeSpeechFiles removes synthesized audio older than the default window.
// Speech artifacts have no database rows, so age comes from the store.
func (c *Cleaner) purgeSpeechFiles(ctx context.Context, now time.Time, summary *Summary) {
	lister, ok := c.speech.(storage.Lister)
	if !ok {
		return
	}
	cutoff := now.Add(-days(c.cfg.DefaultDays))

	infos, err := lister.List(ctx)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error listing speech files: %v", err))
		return
	}

	for _, info := range infos {
		if !info.ModTime.Before(cutoff) {
			continue
		}
		if err := c.speech.Delete(ctx, info.Name); err != nil && !errors.Is(err, storage.ErrNotFound) {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error deleting speech file %s: %v", info.Name, err))
			continue
		}
		summary.FilesDeleted++
	}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
