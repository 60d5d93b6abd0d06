package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/bankportal/portal-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentApp() *fiber.App {
	handler := NewDocumentHandler(services.NewDocumentExtractor(nil))

	app := fiber.New()
	app.Post("/api/v1/documents/extract", handler.ExtractDocuments)
	return app
}

func addPart(t *testing.T, writer *multipart.Writer, filename, contentType string, data []byte) {
	t.Helper()
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="documents"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

func TestExtractDocumentsSkipsNonPDFAndSentinelsBadPDF(t *testing.T) {
	app := newDocumentApp()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	addPart(t, writer, "notes.txt", "text/plain", []byte("plain text"))
	addPart(t, writer, "broken.pdf", "application/pdf", []byte("not really a pdf"))
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Success   bool              `json:"success"`
		Content   map[string]string `json:"content"`
		Extracted []string          `json:"extracted"`
		Skipped   []string          `json:"skipped"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))

	assert.True(t, body.Success)
	assert.Equal(t, []string{"notes.txt"}, body.Skipped)
	assert.Equal(t, []string{"broken.pdf"}, body.Extracted)
	assert.True(t, services.IsExtractionError(body.Content["broken.pdf"]))
}

func TestExtractDocumentsWithoutFilesReturns400(t *testing.T) {
	app := newDocumentApp()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}
