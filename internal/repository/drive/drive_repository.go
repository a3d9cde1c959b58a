package drive

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ousmanedev/receiptwatch/internal/config"
)

// File describes one image found in the import folder.
type File struct {
	ID       string
	Name     string
	MIMEType string
}

// Repository lists and downloads receipt images from a Google Drive folder
// used as a bulk-import source.
type Repository interface {
	ListImages(ctx context.Context, folderID string) ([]File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// GoogleDriveRepository implements Repository using the official Drive API.
type GoogleDriveRepository struct {
	service *driveapi.Service
	logger  *zap.Logger
}

// NewGoogleDriveRepository builds a Drive backed repository instance.
func NewGoogleDriveRepository(ctx context.Context, cfg config.DriveConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := driveapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(driveapi.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive client: %w", err)
	}

	return &GoogleDriveRepository{service: service, logger: logger}, nil
}

// ListImages returns the image files directly under the given folder.
func (r *GoogleDriveRepository) ListImages(ctx context.Context, folderID string) ([]File, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID must not be empty")
	}

	query := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", folderID)

	var files []File
	pageToken := ""
	for {
		call := r.service.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}

		for _, f := range resp.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MIMEType: f.MimeType})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	r.logger.Debug("listed drive folder", zap.String("folder_id", folderID), zap.Int("files", len(files)))
	return files, nil
}

// Download fetches the raw bytes of a single file.
func (r *GoogleDriveRepository) Download(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID must not be empty")
	}

	resp, err := r.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileID, err)
	}

	return data, nil
}
