package audio

import (
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/config"
)

// Validator enforces the upload constraints that must hold before any
// provider is called: a known audio extension and a bounded file size.
type Validator struct {
	allowedExtensions []string
	maxSizeBytes      int64
}

func NewValidator(cfg config.StorageConfig) *Validator {
	return &Validator{
		allowedExtensions: lo.Map(cfg.AllowedAudioExtensions, func(ext string, _ int) string {
			return strings.ToLower(ext)
		}),
		maxSizeBytes: cfg.MaxUploadSize,
	}
}

// ValidateFilename checks the file extension against the configured allow list.
func (v *Validator) ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !lo.Contains(v.allowedExtensions, ext) {
		return apperrors.WrapSentinel(apperrors.ErrUnsupportedFormat,
			fmt.Errorf("extension %q not in %v", ext, v.allowedExtensions))
	}
	return nil
}

// ValidateSize rejects uploads larger than the configured maximum.
func (v *Validator) ValidateSize(size int64) error {
	if size > v.maxSizeBytes {
		return apperrors.WrapSentinel(apperrors.ErrFileTooLarge,
			fmt.Errorf("%d bytes exceeds the %d byte limit", size, v.maxSizeBytes))
	}
	return nil
}

// MaxSizeBytes exposes the configured limit for multipart readers.
func (v *Validator) MaxSizeBytes() int64 {
	return v.maxSizeBytes
}

// AllowedExtensions returns the lowercased allow list.
func (v *Validator) AllowedExtensions() []string {
	return v.allowedExtensions
}

// SecureName builds a collision-free storage name from the original upload
// name. Only the extension survives; the rest is a timestamp plus a random
// token, so caller-controlled names never reach the filesystem.
func SecureName(filename string) string {
	u := uuid.New()
	return fmt.Sprintf("audio_%s_%x%s", time.Now().UTC().Format("20060102150405"), u[:], strings.ToLower(filepath.Ext(filename)))
}

var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
}

// ContentType returns the MIME type for an audio filename, falling back to
// application/octet-stream for unknown extensions.
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// GetAudioDuration shells out to ffprobe and returns the duration in whole
// seconds. Only the batch importer uses it; a missing ffprobe binary surfaces
// as an error for the caller to tolerate.
func GetAudioDuration(filePath string) (int, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}
