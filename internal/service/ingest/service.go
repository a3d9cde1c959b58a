package ingest

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/service/receipts"
	"github.com/ousmanedev/receiptwatch/pkg/clients/anthropic"
)

// FileInput is one receipt image handed to the pipeline.
type FileInput struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Service runs the image -> text -> order date -> receipt pipeline. Files are
// processed one at a time to bound concurrent calls to the extraction model,
// and one file's failure never aborts the rest of the batch.
type Service struct {
	extractor anthropic.Client
	receipts  *receipts.Service
	logger    *zap.Logger
}

// NewService wires a new ingest pipeline. The extractor may be nil when no
// API key is configured; Process then fails fast per file.
func NewService(extractor anthropic.Client, receiptSvc *receipts.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		receipts:  receiptSvc,
		logger:    logger,
	}
}

// Enabled reports whether an extraction model is configured.
func (s *Service) Enabled() bool {
	return s.extractor != nil
}

// Process runs the pipeline over the batch sequentially and returns one
// result per input file, in input order.
func (s *Service) Process(ctx context.Context, files []FileInput) []models.ImportResult {
	results := make([]models.ImportResult, 0, len(files))
	for _, file := range files {
		results = append(results, s.processOne(ctx, file))
	}
	return results
}

func (s *Service) processOne(ctx context.Context, file FileInput) models.ImportResult {
	result := models.ImportResult{FileName: file.FileName}

	receipt, err := s.ingest(ctx, file)
	if err != nil {
		s.logger.Warn("file import failed",
			zap.String("file", file.FileName),
			zap.Error(err))
		result.Error = err.Error()
		return result
	}

	result.Receipt = &receipt
	return result
}

func (s *Service) ingest(ctx context.Context, file FileInput) (models.Receipt, error) {
	if s.extractor == nil {
		return models.Receipt{}, fmt.Errorf("%w: no extraction model configured", models.ErrUpstream)
	}
	if len(file.Data) == 0 {
		return models.Receipt{}, fmt.Errorf("%w: empty file", models.ErrValidation)
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	text, err := s.extractor.ExtractText(ctx, file.Data, mimeType)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("extract text from %s: %w", file.FileName, err)
	}
	if text == "" {
		return models.Receipt{}, fmt.Errorf("%w: no text recovered from %s", models.ErrUpstream, file.FileName)
	}

	orderDate, err := s.extractor.ExtractOrderDate(ctx, text)
	if err != nil {
		// The receipt is still usable without a date; it ages from the
		// N/A sentinel until someone fills it in.
		s.logger.Warn("order date extraction failed, storing without date",
			zap.String("file", file.FileName),
			zap.Error(err))
		orderDate = models.OrderDateUnknown
	}

	// The same data URL handed to the model doubles as the stored image
	// reference, which keeps imageSrc opaque to everything downstream.
	imageSrc := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(file.Data))

	return s.receipts.Create(ctx, models.CreateReceiptRequest{
		ImageSrc:      imageSrc,
		ExtractedText: text,
		OrderDate:     orderDate,
		FileName:      file.FileName,
	})
}
