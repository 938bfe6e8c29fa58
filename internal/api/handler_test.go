package api

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-extract/internal/models"
)

const sampleStatement = `HSBC UK Bank plc
Account Number: 12345678 Sort Code: 40-12-34

Date Payment type and details Paid out Paid in Balance
Opening balance 1,000.00
01/12/2024 FAST PAYMENT TO: JOHN DOE 100.00 900.00
Balance carried forward 900.00
`

func newTestApp() *fiber.App {
	app := fiber.New()
	srv := &Server{Logger: log.New(io.Discard)}
	srv.Register(app)
	return app
}

func TestHealth(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fiber", body["engine"])
	assert.Equal(t, version, body["version"])
}

func TestExtractFromTextField(t *testing.T) {
	app := newTestApp()

	form := url.Values{
		"text":        {sampleStatement},
		"institution": {"hsbc"},
	}
	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, body.Success)
	assert.Equal(t, "hsbc", body.Institution)
	assert.Equal(t, 1, body.Count)
	assert.False(t, body.UsedFallback)

	require.NotNil(t, body.AccountInfo)
	assert.Equal(t, "12345678", body.AccountInfo.Number)
	assert.Equal(t, "40-12-34", body.AccountInfo.SortCode)

	// One transaction plus its subtotal and grand total rows.
	require.Len(t, body.Records, 3)
	assert.Equal(t, models.KindTransaction, body.Records[0].Kind)
	assert.Equal(t, "100.00", body.Records[0].Debit)
	assert.Equal(t, "Transfer", body.Records[0].Category)
	assert.Equal(t, models.KindSummary, body.Records[2].Kind)

	assert.Contains(t, body.CSV, "Date,Description,Debit,Credit,Balance,Account,Category")
	assert.Contains(t, body.CSV, "FAST PAYMENT TO: JOHN DOE")
}

func TestExtractAutoDetects(t *testing.T) {
	app := newTestApp()

	form := url.Values{"text": {sampleStatement}}
	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hsbc", body.Institution)
	assert.Equal(t, 1, body.Count)
}

func TestExtractFromUploadedTextFile(t *testing.T) {
	app := newTestApp()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "statement.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sampleStatement))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
}

func TestExtractNoInput(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestExtractUnsupportedFileType(t *testing.T) {
	app := newTestApp()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "statement.docx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("ignored"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExtractPlaceholderOnEmptyResult(t *testing.T) {
	app := newTestApp()

	form := url.Values{
		"text":        {"Barclays Bank PLC nothing transactional here"},
		"institution": {"barclays"},
	}
	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Zero(t, body.Count)
	require.Len(t, body.Records, 1)
	assert.Equal(t, models.KindSummary, body.Records[0].Kind)
}
