// Command import loads a question catalog file into the quiz database.
//
//	import -db quiz.db -format text|yaml [-strip-spaces] FILE
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/ingest"
	"github.com/selfquiz/backend/internal/service"
	"github.com/selfquiz/backend/internal/store"
)

func main() {
	dbPath := flag.String("db", "quiz.db", "SQLite database file")
	format := flag.String("format", "", "input format: text or yaml (default: from file extension)")
	stripSpaces := flag.Bool("strip-spaces", false, "remove all whitespace from content and options")
	dryRun := flag.Bool("dry-run", false, "parse and validate without saving")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] FILE\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := run(context.Background(), logger, *dbPath, path, *format, ingest.Options{StripSpaces: *stripSpaces}, *dryRun); err != nil {
		logger.Error("import failed", "file", path, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, dbPath, path, format string, opts ingest.Options, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	drafts, err := readDrafts(f, detectFormat(format, path), opts)
	if err != nil {
		return err
	}
	logger.Info("parsed catalog", "file", path, "questions", len(drafts))

	if dryRun {
		if _, err := ingest.Build(drafts); err != nil {
			return err
		}
		logger.Info("dry run: catalog is valid", "questions", len(drafts))
		return nil
	}

	db, err := store.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	svc := service.NewQuizService(db, mastery.DefaultPolicy(), mastery.NewComposer(nil), nil, logger, service.Options{})
	created, err := svc.ImportQuestions(ctx, drafts)
	if err != nil {
		return err
	}

	total, err := db.CountQuestions(ctx)
	if err != nil {
		return err
	}
	logger.Info("import complete", "added", len(created), "catalog_size", total)
	return nil
}

func detectFormat(format, path string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "text"
	}
}

func readDrafts(r io.Reader, format string, opts ingest.Options) ([]ingest.Draft, error) {
	switch format {
	case "yaml":
		return ingest.LoadYAML(r, opts)
	case "text":
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return ingest.ParseText(string(raw), opts), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}
