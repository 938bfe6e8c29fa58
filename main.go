package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-extract/internal/api"
	"github.com/insightdelivered/statement-extract/internal/engine"
	"github.com/insightdelivered/statement-extract/internal/extractor"
	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/writer"
)

type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose output"`

	Extract ExtractCmd `cmd:"" default:"withargs" help:"Extract transactions from statement files"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP extraction API"`
}

type ExtractCmd struct {
	Files       []string `arg:"" type:"existingfile" help:"Statement files (.pdf or .txt)"`
	Institution string   `enum:",hsbc,barclays" default:"" help:"Institution layout (auto-detected if omitted)"`
	Output      string   `short:"o" help:"Output CSV path (defaults to input name with .csv extension)"`
	Header      bool     `default:"true" negatable:"" help:"Include account metadata header rows"`
	Fallback    bool     `default:"true" negatable:"" help:"Run the generic fallback when nothing is extracted"`
}

type ServeCmd struct {
	Addr string `env:"LISTEN_ADDR" default:":8080" help:"Listen address"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("statement-extract"),
		kong.Description("Converts bank statement text into normalized, categorized transaction records."),
	)

	logger := log.New(os.Stderr)
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch kctx.Command() {
	case "serve":
		runServe(ctx, cli.Serve, logger)
	default:
		runExtract(ctx, cli.Extract, logger)
	}
}

func runExtract(ctx context.Context, cmd ExtractCmd, logger *log.Logger) {
	for _, path := range cmd.Files {
		if err := processFile(ctx, path, cmd, logger); err != nil {
			logger.Fatal("extraction failed", "file", path, "error", err)
		}
	}
}

func processFile(ctx context.Context, path string, cmd ExtractCmd, logger *log.Logger) error {
	logger.Info("processing", "file", path)

	text, err := readInput(path)
	if err != nil {
		return err
	}

	inst := models.Institution(cmd.Institution)
	if inst == "" {
		detected, err := engine.Detect(text)
		if err != nil {
			logger.Warn("institution not detected, using generic heuristics")
			inst = models.InstitutionGeneric
		} else {
			inst = detected
			logger.Info("detected institution", "institution", inst)
		}
	}

	var eng engine.Engine
	if inst == models.InstitutionGeneric {
		eng = engine.NewFallback(logger)
	} else {
		eng, err = engine.New(inst, logger)
		if err != nil {
			return err
		}
	}

	st, err := eng.Extract(ctx, text)
	if err != nil {
		return err
	}

	if len(st.Transactions) == 0 && cmd.Fallback && inst != models.InstitutionGeneric {
		logger.Warn("primary engine found no transactions, running fallback")
		fb, fbErr := engine.NewFallback(logger).Extract(ctx, text)
		if fbErr == nil {
			st.Transactions = engine.Merge(st.Transactions, fb.Transactions)
		}
	}

	records := engine.Records(st)
	logger.Info("extracted", "transactions", len(st.Transactions), "records", len(records))

	out := cmd.Output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	}
	w := &writer.CSVWriter{IncludeHeader: cmd.Header}
	if err := w.WriteToFile(out, st, records); err != nil {
		return err
	}
	logger.Info("wrote output", "file", out)
	return nil
}

func readInput(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractor.ExtractTextCombined(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runServe(ctx context.Context, cmd ServeCmd, logger *log.Logger) {
	app := fiber.New(fiber.Config{
		AppName:               "statement-extract",
		DisableStartupMessage: true,
	})
	srv := &api.Server{Logger: logger}
	srv.Register(app)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info("listening", "addr", cmd.Addr)
	if err := app.Listen(cmd.Addr); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
