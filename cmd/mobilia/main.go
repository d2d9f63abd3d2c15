package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"mobilia/internal/archive"
	"mobilia/internal/assets"
	"mobilia/internal/config"
	"mobilia/internal/enrich"
	"mobilia/internal/pipeline"
	"mobilia/internal/sheet"
	"mobilia/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := zap.NewProduction()
	must(err)
	defer func() { _ = log.Sync() }()

	cmd := os.Args[1]
	switch cmd {
	case "ingest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "catalog spreadsheet path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		store := assets.NewStore(cfg.AssetsDir, cfg.AssetsBaseURL, log)
		enricher := enrich.NewEnricher(cfg, log)
		svc := pipeline.NewIngestionService(db, store, enricher, cfg, log)
		report, err := svc.IngestFile(context.Background(), *file)
		must(err)
		fmt.Printf("ingest done catalog=%d rows=%d products=%d skipped=%d images=%d matched=%d\n",
			report.CatalogID, report.TotalRows, report.ProductsExtracted, report.RowsSkipped,
			report.ImagesExtracted, report.ImagesMatched)
	case "extract-images":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "spreadsheet path")
		out := fs.String("out", "", "output directory")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--file and --out are required"))
		}
		images, err := archive.NewExtractor(log).ExtractFile(*file, *out)
		must(err)
		for _, img := range images {
			fmt.Printf("%s anchorRow=%d from=%s\n", img.Filename, img.AnchorRow, img.OriginalPath)
		}
		fmt.Printf("extracted %d images to %s\n", len(images), *out)
	case "detect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "spreadsheet path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		rows, err := sheet.ReadWorkbookFile(*file)
		must(err)
		det := sheet.NewDetector(cfg).Detect(rows)
		fmt.Printf("headerRow=%d confidence=%.2f knownFormat=%v\n", det.HeaderRow, det.Confidence, det.IsKnownFormat)
		for col, field := range det.Columns {
			fmt.Printf("  %s -> %s\n", col, field)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		catalogID := fs.Int64("catalogId", 0, "catalog id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *catalogID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--catalogId and --out are required"))
		}
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		products, err := db.ProductsByCatalogID(*catalogID)
		must(err)
		if len(products) == 0 {
			must(fmt.Errorf("no products for catalogId=%d", *catalogID))
		}
		must(pipeline.ExportProductsToXLSX(products, *out))
		fmt.Printf("exported %d products to %s\n", len(products), *out)
	case "assets:migrate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		src := fs.String("src", "", "source directory")
		prefix := fs.String("prefix", "migrated", "destination prefix")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*src) == "" {
			must(fmt.Errorf("--src is required"))
		}
		store := assets.NewStore(cfg.AssetsDir, cfg.AssetsBaseURL, log)
		result, err := assets.MigrateImages(store, *src, *prefix, assets.NewSeenCache())
		must(err)
		fmt.Printf("migrate done scanned=%d uploaded=%d deduped=%d failed=%d\n",
			result.Scanned, result.Uploaded, result.Deduped, result.Failed)
	case "pdf:text":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "pdf path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		lines, err := pipeline.ExtractPDFTextFile(*file)
		must(err)
		for _, line := range lines {
			fmt.Println(line)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`usage: mobilia <command> [flags]

commands:
  ingest          --file catalog.xlsx
  extract-images  --file catalog.xlsx --out dir
  detect          --file catalog.xlsx
  export:xlsx     --catalogId N --out result.xlsx
  assets:migrate  --src dir [--prefix migrated]
  pdf:text        --file catalog.pdf`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
