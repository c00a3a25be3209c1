package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/models"
)

type attachmentReader struct {
	logger *logger.Logger
}

// NewAttachmentReader constructs an [AttachmentReader].
func NewAttachmentReader(logger *logger.Logger) AttachmentReader {
	return &attachmentReader{logger: logger}
}

// ReadAll reads every file concurrently. The first failing read cancels the
// rest and the whole batch is discarded; on success the attachments come
// back in input order.
func (r *attachmentReader) ReadAll(ctx context.Context, paths []string) ([]models.Attachment, error) {
	log := logger.FromContext(ctx)

	if len(paths) == 0 {
		return nil, nil
	}

	attachments := make([]models.Attachment, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read attachment %q: %w", path, err)
			}

			mimeType := mimeTypeFor(path)
			attachments[i] = models.Attachment{
				ID:   uuid.NewString(),
				Name: filepath.Base(path),
				Type: mimeType,
				Size: int64(len(content)),
				Data: models.EncodeAttachmentData(mimeType, content),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Err(err).Str("func", "*attachmentReader.ReadAll").Msg("attachment batch discarded")
		return nil, err
	}

	return attachments, nil
}

// Export decodes the attachment and writes it into dir under its original
// name.
func (r *attachmentReader) Export(attachment models.Attachment, dir string) (string, error) {
	content, err := attachment.DecodeData()
	if err != nil {
		return "", fmt.Errorf("export attachment: %w", err)
	}

	path := filepath.Join(dir, attachment.Name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("export attachment: write %q: %w", path, err)
	}

	return path, nil
}

// mimeTypeFor resolves the MIME type from the file extension, falling back
// to application/octet-stream. Parameters like charset are stripped so the
// stored data URI stays compact.
func mimeTypeFor(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return "application/octet-stream"
	}
	if base, _, found := strings.Cut(mimeType, ";"); found {
		return strings.TrimSpace(base)
	}
	return mimeType
}
