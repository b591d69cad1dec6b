package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/metrics"
	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// Extractor turns a receipt image into the raw text of a receipt document
type Extractor interface {
	Extract(ctx context.Context, image []byte, mediaType string) (string, error)
}

const maxExtractedQuantity = 1_000_000

// SupportedImageTypes are the media types the extraction service accepts
var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ReceiptService maps extraction results into drafts
type ReceiptService struct {
	extractor Extractor
}

// NewReceiptService creates a new receipt service
func NewReceiptService(extractor Extractor) *ReceiptService {
	return &ReceiptService{extractor: extractor}
}

// Ingest reads a receipt image into a new draft. It makes exactly one
// extraction call and returns either a complete draft or an error.
func (s *ReceiptService) Ingest(ctx context.Context, image []byte, mediaType string) (*models.Draft, error) {
	if len(image) == 0 {
		return nil, utils.NewValidationError("receipt image is required")
	}
	if !SupportedImageTypes[mediaType] {
		return nil, utils.NewValidationError(fmt.Sprintf("unsupported image type %q", mediaType))
	}

	start := time.Now()
	text, err := s.extractor.Extract(ctx, image, mediaType)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if errors.Is(err, ErrMalformedResponse) {
		logger.GetLogger().Warnw("Receipt extraction unusable", "outcome", metrics.OutcomeMalformed, "error", err)
		metrics.ReceiptIngestions.WithLabelValues(metrics.OutcomeMalformed).Inc()
		return nil, utils.NewIngestionMalformedError("extraction response is not valid JSON", err)
	}
	if err != nil {
		logger.GetLogger().Warnw("Receipt extraction failed", "error", err)
		metrics.ReceiptIngestions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, utils.NewIngestionUnavailableError(err)
	}

	extraction, err := ParseExtraction(text)
	if err != nil {
		outcome := metrics.OutcomeMalformed
		if utils.KindOf(err) == utils.KindIngestionEmpty {
			outcome = metrics.OutcomeEmpty
		}
		logger.GetLogger().Warnw("Receipt extraction unusable", "outcome", outcome, "error", err)
		metrics.ReceiptIngestions.WithLabelValues(outcome).Inc()
		return nil, err
	}

	metrics.ReceiptIngestions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	draft := DraftFromExtraction(extraction)
	logger.GetLogger().Infow("Receipt ingested", "title", draft.Title, "items", len(draft.Items))
	return draft, nil
}

// StripFormatting removes a surrounding ``` fence, with or without a
// language tag, and the whitespace around it.
func StripFormatting(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[newline+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ParseExtraction decodes and checks the extraction document
func ParseExtraction(text string) (*models.ReceiptExtraction, error) {
	text = StripFormatting(text)
	if text == "" {
		return nil, utils.NewIngestionEmptyError()
	}

	var extraction models.ReceiptExtraction
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := decoder.Decode(&extraction); err != nil {
		return nil, utils.NewIngestionMalformedError("response is not valid receipt JSON", err)
	}

	if extraction.Items == nil {
		return nil, utils.NewIngestionMalformedError("missing items", nil)
	}
	if extraction.TotalTax == nil {
		return nil, utils.NewIngestionMalformedError("missing totalTax", nil)
	}
	if extraction.TotalServiceCharge == nil {
		return nil, utils.NewIngestionMalformedError("missing totalServiceCharge", nil)
	}
	if extraction.TotalTax.IsNegative() {
		return nil, utils.NewIngestionMalformedError("totalTax is negative", nil)
	}
	if extraction.TotalServiceCharge.IsNegative() {
		return nil, utils.NewIngestionMalformedError("totalServiceCharge is negative", nil)
	}

	for i, item := range extraction.Items {
		if utils.CleanName(item.Name) == "" {
			return nil, utils.NewIngestionMalformedError(fmt.Sprintf("item %d has no name", i+1), nil)
		}
		if item.Price.IsNegative() {
			return nil, utils.NewIngestionMalformedError(fmt.Sprintf("item %d has a negative price", i+1), nil)
		}
		if !item.Quantity.IsInteger() || item.Quantity.LessThan(decimal.NewFromInt(1)) ||
			item.Quantity.GreaterThan(decimal.NewFromInt(maxExtractedQuantity)) {
			return nil, utils.NewIngestionMalformedError(fmt.Sprintf("item %d has quantity %s", i+1, item.Quantity), nil)
		}
	}
	return &extraction, nil
}

// DraftFromExtraction builds an unassigned draft from a checked extraction
func DraftFromExtraction(extraction *models.ReceiptExtraction) *models.Draft {
	title := ""
	if extraction.RestaurantName != nil {
		title = *extraction.RestaurantName
	}

	draft := &models.Draft{
		Title:          utils.TitleOrDefault(title, utils.DefaultScanTitle),
		Items:          make([]models.BillItem, 0, len(extraction.Items)),
		Tax:            decimal.Zero,
		ServiceCharge:  decimal.Zero,
		ParticipantIDs: []string{},
	}
	if extraction.TotalTax != nil {
		draft.Tax = *extraction.TotalTax
	}
	if extraction.TotalServiceCharge != nil {
		draft.ServiceCharge = *extraction.TotalServiceCharge
	}

	for _, raw := range extraction.Items {
		draft.Items = append(draft.Items, models.BillItem{
			ID:                utils.GenerateID(),
			Name:              utils.CleanName(raw.Name),
			Price:             raw.Price,
			Quantity:          int(raw.Quantity.IntPart()),
			AssignedPersonIDs: []string{},
		})
	}
	return draft
}
