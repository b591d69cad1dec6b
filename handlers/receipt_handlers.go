package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// MaxReceiptSize caps uploaded receipt images
const MaxReceiptSize = 10 << 20

// ScanReceipt reads an uploaded receipt image into the draft. The draft is
// replaced only when extraction succeeds.
func ScanReceipt(c *gin.Context) {
	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(fmt.Sprintf("No file uploaded or invalid form: %v", err)))
		return
	}
	defer file.Close()

	if header.Size > MaxReceiptSize {
		utils.HandleError(c, utils.NewValidationError("receipt image is larger than 10 MB"))
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, MaxReceiptSize))
	if err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to read uploaded file", err))
		return
	}

	mediaType := mediaTypeOf(header.Header.Get("Content-Type"), image)
	logger.GetLogger().Infow("Received receipt",
		"filename", header.Filename,
		"size", len(image),
		"mediaType", mediaType)

	scanned, err := handlerServices.Receipts.Ingest(c.Request.Context(), image, mediaType)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, handlerServices.DraftSession.ApplyIngestion(scanned))
}

// mediaTypeOf trusts the part's Content-Type only when it names an image
func mediaTypeOf(declared string, image []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if strings.HasPrefix(declared, "image/") {
		if declared == "image/jpg" {
			return "image/jpeg"
		}
		return declared
	}
	return http.DetectContentType(image)
}
