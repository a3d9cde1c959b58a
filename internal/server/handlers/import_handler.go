package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/config"
	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository/drive"
	"github.com/ousmanedev/receiptwatch/internal/service/ingest"
)

// maxUploadBytes bounds a single uploaded image.
const maxUploadBytes = 10 * 1024 * 1024

// ImportHandler exposes the batch extraction pipeline over HTTP: direct
// multipart uploads and bulk import from a Google Drive folder.
type ImportHandler struct {
	ingest   *ingest.Service
	drive    drive.Repository
	driveCfg config.DriveConfig
	logger   *zap.Logger
}

// NewImportHandler constructs the import handler. The drive repository may be
// nil when Drive import is not configured.
func NewImportHandler(ingestSvc *ingest.Service, driveRepo drive.Repository, driveCfg config.DriveConfig, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{
		ingest:   ingestSvc,
		drive:    driveRepo,
		driveCfg: driveCfg,
		logger:   logger,
	}
}

// Upload accepts multipart form uploads under the "images" field and runs
// each file through the extraction pipeline. Per-file failures are reported
// in the result list; the batch itself always answers 200.
func (h *ImportHandler) Upload(c *gin.Context) {
	if !h.ingest.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction model not configured"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("invalid multipart form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}

	results := make([]models.ImportResult, 0, len(files))
	for _, header := range files {
		input, err := readUpload(header)
		if err != nil {
			// A rejected or unreadable upload is a per-file failure;
			// the rest of the batch continues.
			h.logger.Warn("failed to read upload", zap.String("file", header.Filename), zap.Error(err))
			results = append(results, models.ImportResult{
				FileName: header.Filename,
				Error:    err.Error(),
			})
			continue
		}

		results = append(results, h.ingest.Process(c.Request.Context(), []ingest.FileInput{input})...)
	}

	c.JSON(http.StatusOK, results)
}

// readUpload validates and buffers one uploaded file.
func readUpload(header *multipart.FileHeader) (ingest.FileInput, error) {
	if header.Size > maxUploadBytes {
		return ingest.FileInput{}, fmt.Errorf("file too large (%d bytes, limit %d)", header.Size, maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return ingest.FileInput{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ingest.FileInput{}, fmt.Errorf("read upload: %w", err)
	}

	return ingest.FileInput{
		FileName: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// driveImportRequest optionally overrides the configured source folder.
type driveImportRequest struct {
	FolderID string `json:"folderId"`
}

// Drive pulls every image from a Google Drive folder through the pipeline.
func (h *ImportHandler) Drive(c *gin.Context) {
	if h.drive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drive import not configured"})
		return
	}
	if !h.ingest.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction model not configured"})
		return
	}

	var req driveImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid drive import payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	folderID := req.FolderID
	if folderID == "" {
		folderID = h.driveCfg.FolderID
	}
	if folderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folderId is required"})
		return
	}

	ctx := c.Request.Context()

	files, err := h.drive.ListImages(ctx, folderID)
	if err != nil {
		h.logger.Error("failed to list drive folder", zap.String("folder_id", folderID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list drive folder"})
		return
	}

	results := make([]models.ImportResult, 0, len(files))
	for _, file := range files {
		data, err := h.drive.Download(ctx, file.ID)
		if err != nil {
			// A download failure is a per-file failure, same as a
			// failed extraction; the rest of the folder continues.
			h.logger.Warn("failed to download drive file", zap.String("file", file.Name), zap.Error(err))
			results = append(results, models.ImportResult{
				FileName: file.Name,
				Error:    "download failed: " + err.Error(),
			})
			continue
		}

		results = append(results, h.ingest.Process(ctx, []ingest.FileInput{{
			FileName: file.Name,
			MIMEType: file.MIMEType,
			Data:     data,
		}})...)
	}

	c.JSON(http.StatusOK, results)
}
