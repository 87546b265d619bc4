package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/migrations"
	"github.com/shishobooks/catalog/pkg/models"
)

func main() {
	log := logger.New()

	var opts struct {
		DryRun bool `short:"n" long:"dry-run" description:"Parse the file and report what would be imported"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/import-books [--dry-run] <path/to/books.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Err(err).Fatal("read file error")
	}

	payloads := []books.CreateBookPayload{}
	if err := json.Unmarshal(data, &payloads); err != nil {
		log.Err(err).Fatal("json parse error")
	}

	rows := make([]*models.Book, 0, len(payloads))
	for _, p := range payloads {
		rows = append(rows, &models.Book{
			Title:           p.Title,
			Author:          p.Author,
			Description:     p.Description,
			ISBN:            p.ISBN,
			PublicationYear: p.PublicationYear,
			Genre:           p.Genre,
			Pages:           p.Pages,
			CoverURL:        p.CoverURL,
		})
	}

	if opts.DryRun {
		log.Info("dry run", logger.Data{"file": args[0], "books": len(rows)})
		return
	}

	batchID, err := uuid.NewRandom()
	if err != nil {
		log.Err(err).Fatal("new uuid error")
	}
	batchLog := log.ID(batchID.String()).Root(logger.Data{"file": args[0]})
	ctx := batchLog.WithContext(context.Background())

	cfg, err := config.New()
	if err != nil {
		batchLog.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		batchLog.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		batchLog.Err(err).Fatal("migrations error")
	}

	result, err := books.NewService(db).ImportBooks(ctx, rows)
	if err != nil {
		batchLog.Err(err).Error("import error")
	}
	if result != nil {
		batchLog.Info("import finished", logger.Data{"created": result.Created, "skipped": result.Skipped})
	}
}
