package migrate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/satimage_bridge/biz/dal/db"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/database"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
)

// ArchiveReport summarises one processed archive.
type ArchiveReport struct {
	Archive       string
	Seen          int
	Inserted      int
	Skipped       int
	AssetFailures int
	Aborted       bool
	AbortedAt     string
	Duration      time.Duration
}

// Processor migrates the records of one archive into the store.
type Processor struct {
	store        docstore.Store
	materializer *Materializer
	transformer  *Transformer
	policy       StopPolicy
	scenes       *db.SceneDAO
}

func NewProcessor(store docstore.Store, materializer *Materializer, transformer *Transformer, policy StopPolicy) *Processor {
	if policy == nil {
		policy = AbortOnDuplicate
	}
	return &Processor{
		store:        store,
		materializer: materializer,
		transformer:  transformer,
		policy:       policy,
		scenes:       db.NewSceneDAO(),
	}
}

// ProcessArchive walks the metadata table of the archive in table order. Open and
// lookup errors are returned; per-record failures are logged and counted.
func (p *Processor) ProcessArchive(ctx context.Context, archivePath string) (*ArchiveReport, error) {
	start := time.Now()
	report := &ArchiveReport{Archive: archivePath}

	archive, err := database.OpenArchive(archivePath)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := database.Close(archive); err != nil {
			hlog.CtxWarnf(ctx, "close archive %s: %v", archivePath, err)
		}
	}()

	var lookupErr error
	err = p.scenes.Each(ctx, archive, func(rec *model.SourceRecord, scanErr error) bool {
		report.Seen++
		if scanErr != nil {
			hlog.CtxErrorf(ctx, "%s: row %d: %v", archivePath, report.Seen, scanErr)
			report.Skipped++
			return true
		}
		outcome, err := p.processRecord(ctx, rec, report)
		if err != nil {
			lookupErr = err
			return false
		}
		switch outcome {
		case AbortArchive:
			report.Aborted = true
			report.AbortedAt = rec.ProductID
			return false
		case SkipRecord:
			report.Skipped++
		}
		return true
	})
	report.Duration = time.Since(start)
	if lookupErr != nil {
		return report, lookupErr
	}
	if err != nil {
		return report, fmt.Errorf("read %s: %w", archivePath, err)
	}
	return report, nil
}

func (p *Processor) processRecord(ctx context.Context, rec *model.SourceRecord, report *ArchiveReport) (Outcome, error) {
	exists, err := p.store.Exists(ctx, rec.ProductID)
	if err != nil {
		return AbortArchive, fmt.Errorf("look up product %s: %w", rec.ProductID, err)
	}
	if exists {
		outcome := p.policy.OnDuplicate(rec.ProductID)
		hlog.CtxInfof(ctx, "product %s already stored: %s", rec.ProductID, outcome)
		return outcome, nil
	}

	baseDir := path.Join(rec.TrackID, rec.ScenePath, rec.SceneRow)
	assets, err := p.materializer.Materialize(ctx, baseDir, rec.ProductName, Payloads{
		Metadata:  rec.Metadata,
		Quickview: rec.QuickImage,
		Thumbnail: rec.ThumbImage,
		Footprint: rec.ShapeImage,
	})
	if err != nil {
		report.AssetFailures++
		hlog.CtxErrorf(ctx, "product %s: materialize assets: %v", rec.ProductID, err)
	}

	fp := BuildFootprintFromCorners(SelectCorners(rec))
	product, err := p.transformer.Transform(ctx, rec, fp, assets)
	if err != nil {
		hlog.CtxErrorf(ctx, "product %s: transform: %v", rec.ProductID, err)
		return SkipRecord, nil
	}

	if err := p.store.Insert(ctx, product); err != nil {
		if errors.Is(err, docstore.ErrDuplicateProduct) {
			outcome := p.policy.OnDuplicate(rec.ProductID)
			hlog.CtxInfof(ctx, "product %s inserted concurrently: %s", rec.ProductID, outcome)
			return outcome, nil
		}
		hlog.CtxErrorf(ctx, "product %s: insert: %v", rec.ProductID, err)
		return SkipRecord, nil
	}
	report.Inserted++
	hlog.CtxDebugf(ctx, "product %s stored under %s", rec.ProductID, baseDir)
	return Continue, nil
}
