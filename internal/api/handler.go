// Package api exposes the extraction engine over HTTP.
package api

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-extract/internal/engine"
	"github.com/insightdelivered/statement-extract/internal/extractor"
	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/writer"
)

const version = "2.0.0"

// ExtractResponse is the JSON body returned by POST /api/extract.
type ExtractResponse struct {
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	Institution  string          `json:"institution,omitempty"`
	AccountInfo  *AccountInfo    `json:"accountInfo,omitempty"`
	Records      []models.Record `json:"records"`
	CSV          string          `json:"csv,omitempty"`
	Count        int             `json:"count"`
	UsedFallback bool            `json:"usedFallback,omitempty"`
}

// AccountInfo carries statement metadata in the response.
type AccountInfo struct {
	Holder   string `json:"holder,omitempty"`
	Number   string `json:"number,omitempty"`
	SortCode string `json:"sortCode,omitempty"`
	Period   string `json:"period,omitempty"`
}

// Server wires the HTTP handlers.
type Server struct {
	Logger *log.Logger
}

// Register sets up routes on the fiber app.
func (s *Server) Register(app *fiber.App) {
	app.Get("/api/health", s.handleHealth)
	app.Post("/api/extract", s.handleExtract)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// handleExtract accepts a multipart "file" (PDF or plain text) or a
// "text" form field, plus optional "institution". The fallback
// strategy runs whenever the primary engine finds nothing.
func (s *Server) handleExtract(c *fiber.Ctx) error {
	text, err := s.inputText(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ExtractResponse{Error: err.Error()})
	}

	inst := models.Institution(strings.ToLower(c.FormValue("institution")))
	if inst == "" {
		detected, detectErr := engine.Detect(text)
		if detectErr != nil {
			// Unknown layout is not fatal: the fallback still runs.
			inst = models.InstitutionGeneric
		} else {
			inst = detected
		}
	}

	st, usedFallback, err := extract(c.UserContext(), inst, text, s.Logger)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ExtractResponse{Error: err.Error()})
	}

	records := engine.Records(st)

	var buf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: true}
	if err := csvWriter.Write(&buf, st, records); err != nil {
		s.Logger.Error("CSV render failed", "error", err)
	}

	return c.JSON(ExtractResponse{
		Success:     true,
		Institution: string(st.Institution),
		AccountInfo: &AccountInfo{
			Holder:   st.AccountHolder,
			Number:   st.AccountNumber,
			SortCode: st.SortCode,
			Period:   st.StatementPeriod,
		},
		Records:      records,
		CSV:          buf.String(),
		Count:        len(st.Transactions),
		UsedFallback: usedFallback,
	})
}

// inputText resolves the request's statement text: an uploaded file
// wins over the raw text field.
func (s *Server) inputText(c *fiber.Ctx) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if text := c.FormValue("text"); strings.TrimSpace(text) != "" {
			return text, nil
		}
		return "", fiber.NewError(fiber.StatusBadRequest, "no input: upload form field 'file' or send 'text'")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf":
		tmp, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return "", err
		}
		defer os.Remove(tmp.Name())
		tmp.Close()
		if err := c.SaveFile(header, tmp.Name()); err != nil {
			return "", err
		}
		return extractor.ExtractTextCombined(tmp.Name())
	case ".txt", "":
		f, err := header.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "unsupported file type "+ext)
	}
}

// extract runs the primary engine and, when it yields nothing, the
// fallback strategy, merging with duplicate suppression.
func extract(ctx context.Context, inst models.Institution, text string, logger *log.Logger) (*models.Statement, bool, error) {
	var primary engine.Engine
	if inst == models.InstitutionGeneric {
		primary = engine.NewFallback(logger)
	} else {
		eng, err := engine.New(inst, logger)
		if err != nil {
			return nil, false, err
		}
		primary = eng
	}

	st, err := primary.Extract(ctx, text)
	if err != nil {
		return nil, false, err
	}
	if len(st.Transactions) > 0 || inst == models.InstitutionGeneric {
		return st, false, nil
	}

	fb, err := engine.NewFallback(logger).Extract(ctx, text)
	if err != nil {
		return st, false, nil
	}
	st.Transactions = engine.Merge(st.Transactions, fb.Transactions)
	return st, len(fb.Transactions) > 0, nil
}
