package handlers

import (
	"io"
	"strings"

	"github.com/bankportal/portal-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DocumentHandler struct {
	Extractor *services.DocumentExtractor
}

func NewDocumentHandler(extractor *services.DocumentExtractor) *DocumentHandler {
	return &DocumentHandler{Extractor: extractor}
}

// ExtractDocuments handles POST /api/v1/documents/extract. It accepts a
// multipart upload under the "documents" field and returns filename ->
// extracted text for every part with MIME type application/pdf. Files are
// processed one at a time in upload order; extraction failures come back as
// the in-band sentinel text, never as a request failure.
func (h *DocumentHandler) ExtractDocuments(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid multipart request",
		})
	}

	files := form.File["documents"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No documents uploaded",
		})
	}

	content := make(map[string]string)
	var extracted []string
	var skipped []string

	for _, fileHeader := range files {
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.EqualFold(contentType, "application/pdf") {
			skipped = append(skipped, fileHeader.Filename)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			content[fileHeader.Filename] = "Error reading PDF content: " + err.Error()
			extracted = append(extracted, fileHeader.Filename)
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			content[fileHeader.Filename] = "Error reading PDF content: " + err.Error()
			extracted = append(extracted, fileHeader.Filename)
			continue
		}

		content[fileHeader.Filename] = h.Extractor.ExtractText(fileHeader.Filename, data)
		extracted = append(extracted, fileHeader.Filename)
	}

	logrus.WithFields(logrus.Fields{
		"handler":   "DocumentHandler",
		"extracted": len(extracted),
		"skipped":   len(skipped),
	}).Info("Document extraction request served")

	return c.JSON(fiber.Map{
		"success":   true,
		"content":   content,
		"extracted": extracted,
		"skipped":   skipped,
	})
}
