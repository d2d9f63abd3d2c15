package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mobilia/internal"
	"mobilia/internal/archive"
	"mobilia/internal/assets"
	"mobilia/internal/config"
	"mobilia/internal/enrich"
	"mobilia/internal/reconcile"
	"mobilia/internal/sheet"
	"mobilia/internal/storage"
)

type IngestionService struct {
	db         *storage.DB
	store      *assets.Store
	enricher   *enrich.Enricher
	extractor  *archive.Extractor
	detector   *sheet.Detector
	reconciler *reconcile.Reconciler
	cfg        config.Config
	log        *zap.Logger
}

func NewIngestionService(db *storage.DB, store *assets.Store, enricher *enrich.Enricher, cfg config.Config, log *zap.Logger) *IngestionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestionService{
		db:         db,
		store:      store,
		enricher:   enricher,
		extractor:  archive.NewExtractor(log),
		detector:   sheet.NewDetector(cfg),
		reconciler: reconcile.NewReconciler(cfg),
		cfg:        cfg,
		log:        log,
	}
}

type extractionResult struct {
	images []internal.ExtractedImage
	err    error
}

// IngestFile runs one catalog file through the whole pipeline: image
// extraction and row classification in parallel, then materialization,
// optional enrichment, persistence and image reconciliation. The report is
// returned even on partial success; only a structurally unreadable
// workbook aborts.
func (s *IngestionService) IngestFile(ctx context.Context, srcPath string) (internal.IngestReport, error) {
	start := time.Now()

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return internal.IngestReport{}, err
	}

	catalogID, err := s.db.CreateCatalog(filepath.Base(srcPath))
	if err != nil {
		return internal.IngestReport{}, err
	}
	report := internal.IngestReport{CatalogID: catalogID}

	workDir := filepath.Join(s.cfg.WorkDir, fmt.Sprintf("ingest-%d", catalogID))
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.log.Warn("work dir cleanup failed", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	// Extraction has no dependency on row parsing; run both at once and
	// join before reconciliation.
	imagesCh := make(chan extractionResult, 1)
	go func() {
		images, err := s.extractor.Extract(content, workDir)
		imagesCh <- extractionResult{images: images, err: err}
	}()

	rows, rowsErr := sheet.ReadWorkbook(content)
	imgRes := <-imagesCh

	if rowsErr != nil {
		_ = s.db.UpdateCatalogStatus(catalogID, "failed")
		return report, fmt.Errorf("unreadable workbook: %w", rowsErr)
	}
	if imgRes.err != nil {
		s.log.Warn("image extraction failed, continuing without images", zap.Error(imgRes.err))
		imgRes.images = nil
	}

	report.TotalRows = len(rows)
	report.ImagesExtracted = len(imgRes.images)

	det := s.detector.Detect(rows)
	products, skipped := sheet.MaterializeProducts(rows, det)
	report.ProductsExtracted = len(products)
	report.RowsSkipped = skipped

	if s.enricher != nil {
		products = s.enricher.EnrichAll(ctx, products)
	}

	productIDs := make([]int64, len(products))
	for i := range products {
		products[i].CatalogID = catalogID
		id, err := s.db.CreateProduct(products[i])
		if err != nil {
			return report, err
		}
		productIDs[i] = id
		products[i].ID = id
	}

	mappings := s.reconciler.Reconcile(products, imgRes.images)
	for _, m := range mappings {
		img := imgRes.images[m.ImageIndex]
		dest := fmt.Sprintf("catalog-%d/product-%d%s", catalogID, productIDs[m.ProductIndex], path.Ext(img.Filename))
		url, err := s.store.UploadImage(img.Data, dest)
		if err != nil {
			// a single storage failure drops only this mapping
			s.log.Warn("image upload failed, dropping mapping",
				zap.Int64("productId", productIDs[m.ProductIndex]), zap.Error(err))
			report.ImagesSkipped++
			continue
		}
		if err := s.db.UpdateProductImageURL(productIDs[m.ProductIndex], url); err != nil {
			s.log.Warn("image url update failed", zap.Int64("productId", productIDs[m.ProductIndex]), zap.Error(err))
			report.ImagesSkipped++
			continue
		}
		report.ImagesMatched++
	}

	if err := s.db.UpdateCatalogStatus(catalogID, "processed"); err != nil {
		return report, err
	}
	_ = s.db.InsertRun(traceID(), catalogID, map[string]float64{
		"totalMs": float64(time.Since(start).Milliseconds()),
	}, report)

	return report, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
