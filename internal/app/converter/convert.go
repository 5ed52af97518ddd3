// Package converter implements the batch transcription pipeline behind the
// CLI. It walks a directory of audio recordings, runs speech recognition on
// each file through a bounded worker pool, writes sidecar transcript files
// and can persist a transcription row per file for a user account.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"medscribe/internal/app/api"
	"medscribe/internal/app/audio"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

// Converter turns a directory of audio files into transcripts.
type Converter struct {
	transcriber api.Transcriber
	repo        repository.TranscriptionRepository
	logger      *zap.Logger
}

func New(transcriber api.Transcriber, repo repository.TranscriptionRepository, logger *zap.Logger) *Converter {
	return &Converter{transcriber: transcriber, repo: repo, logger: logger}
}

// Options controls one batch run.
type Options struct {
	InputDir  string
	OutputDir string // empty writes transcripts next to the audio files
	Extension string // audio extension without the dot, default mp3
	Language  string
	UserID    uint // non-zero also persists a transcription row per file
	Limit     int  // maximum files to process, 0 processes everything
	Parallel  int  // worker count, minimum 1
	Progress  ProgressConfig
}

// Result summarizes one batch run.
type Result struct {
	Processed int
	Skipped   int
	Failed    int
}

// Run transcribes every pending audio file in the input directory. Files
// that already have a sidecar transcript are skipped, so an interrupted run
// can be resumed by running again. Per-file failures are counted and logged
// without stopping the batch.
func (c *Converter) Run(ctx context.Context, opts Options) (*Result, error) {
	if c.transcriber == nil {
		return nil, errors.New("speech recognition provider is not configured")
	}

	ext := opts.Extension
	if ext == "" {
		ext = "mp3"
	}
	paths, err := listAudioFiles(opts.InputDir, ext)
	if err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = opts.InputDir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	result := &Result{}
	pending := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(sidecarPath(outputDir, path)); err == nil {
			c.logger.Debug("transcript exists, skipping", zap.String("file", filepath.Base(path)))
			result.Skipped++
			continue
		}
		pending = append(pending, path)
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}
	if len(pending) == 0 {
		return result, nil
	}

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	manager := NewProgressManager(opts.Progress)
	bar := manager.CreateBar(len(pending), "Transcribing")
	defer manager.Wait()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, parallel)
	)
	for _, path := range pending {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer bar.Increment()

			sem <- struct{}{}
			err := c.processFile(ctx, path, outputDir, opts)
			<-sem

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				c.logger.Error("batch transcription failed",
					zap.String("file", filepath.Base(path)), zap.Error(err))
				return
			}
			result.Processed++
		}(path)
	}
	wg.Wait()
	bar.Complete()

	return result, nil
}

func (c *Converter) processFile(ctx context.Context, path string, outputDir string, opts Options) error {
	recognized, err := c.transcriber.Transcribe(ctx, path, opts.Language)
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}

	text := strings.TrimSpace(recognized.Text)
	sidecar := sidecarPath(outputDir, path)
	if err := os.WriteFile(sidecar, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", sidecar, err)
	}

	if opts.UserID != 0 {
		language := opts.Language
		if language == "" {
			language = recognized.Language
		}
		row := &model.Transcription{
			Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Content:  text,
			UserID:   opts.UserID,
			Language: language,
			Status:   model.StatusCompleted,
		}
		if text == "" {
			row.Status = model.StatusNoSpeechDetected
		}
		if err := c.repo.Create(ctx, row); err != nil {
			return fmt.Errorf("persist transcript of %s: %w", filepath.Base(path), err)
		}
	}

	fields := []zap.Field{
		zap.String("file", filepath.Base(path)),
		zap.Int("characters", len(text)),
	}
	// A missing ffprobe binary only costs the duration field.
	if seconds, err := audio.GetAudioDuration(path); err == nil {
		fields = append(fields, zap.Int("audio_seconds", seconds))
	}
	c.logger.Info("transcribed", fields...)
	return nil
}

// listAudioFiles returns the files with the given extension, oldest first so
// resumed runs pick up where the previous one stopped.
func listAudioFiles(dir string, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	suffix := "." + strings.ToLower(strings.TrimPrefix(ext, "."))

	type candidate struct {
		path string
		mod  int64
	}
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(dir, entry.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod < candidates[j].mod })

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.path
	}
	return paths, nil
}

func sidecarPath(outputDir string, audioPath string) string {
	base := filepath.Base(audioPath)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
}
