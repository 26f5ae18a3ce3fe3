package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
)

// Discover expands inputs into archive paths. A directory contributes its files
// with one of the extensions, sorted by name; a file with a matching extension is
// taken as given. Extensions match case-insensitively in both cases. Any missing or unusable input fails the whole discovery.
func Discover(inputs []string, extensions []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input locations given")
	}
	if len(extensions) == 0 {
		extensions = []string{"db"}
	}

	var archives []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		if !info.IsDir() {
			if !hasExtension(input, extensions) {
				return nil, fmt.Errorf("input %s is not an archive (want %s)", input, strings.Join(extensions, ", "))
			}
			archives = append(archives, input)
			continue
		}

		// os.ReadDir returns entries sorted by name
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", input, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !hasExtension(entry.Name(), extensions) {
				continue
			}
			archives = append(archives, filepath.Join(input, entry.Name()))
		}
	}
	return archives, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, want := range extensions {
		if strings.EqualFold(ext, strings.TrimPrefix(want, ".")) {
			return true
		}
	}
	return false
}

// Locker guards a batch run against concurrent writers.
type Locker interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, lockID string) error
}

// BatchReport summarises a whole run.
type BatchReport struct {
	RunID    string
	Archives []*ArchiveReport
	Failed   int
	Inserted int
	// StoreTotal is the product count after the run, -1 when the store cannot count.
	StoreTotal int64
	Duration   time.Duration
}

// Driver runs the processor over every discovered archive, one at a time.
type Driver struct {
	processor  *Processor
	extensions []string
	lock       Locker
}

type DriverOption func(*Driver)

// WithLock holds l for the duration of a run.
func WithLock(l Locker) DriverOption {
	return func(d *Driver) { d.lock = l }
}

func WithExtensions(exts []string) DriverOption {
	return func(d *Driver) { d.extensions = exts }
}

func NewDriver(processor *Processor, opts ...DriverOption) *Driver {
	d := &Driver{processor: processor, extensions: []string{"db"}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run discovers archives and processes them in order. Discovery and lock errors are
// returned before anything is written; an archive failure is logged and the next
// archive is processed.
func (d *Driver) Run(ctx context.Context, inputs []string) (*BatchReport, error) {
	start := time.Now()
	report := &BatchReport{RunID: uuid.NewString(), StoreTotal: -1}

	archives, err := Discover(inputs, d.extensions)
	if err != nil {
		return report, err
	}
	hlog.CtxInfof(ctx, "[%s] discovered %d archive(s)", report.RunID, len(archives))

	if d.lock != nil {
		lockID, err := d.lock.Acquire(ctx)
		if err != nil {
			return report, fmt.Errorf("acquire ingest lock: %w", err)
		}
		defer func() {
			if err := d.lock.Release(context.WithoutCancel(ctx), lockID); err != nil {
				hlog.CtxWarnf(ctx, "[%s] release ingest lock: %v", report.RunID, err)
			}
		}()
	}

	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ar, err := d.processor.ProcessArchive(ctx, archive)
		report.Archives = append(report.Archives, ar)
		if ar != nil {
			report.Inserted += ar.Inserted
		}
		if err != nil {
			report.Failed++
			hlog.CtxErrorf(ctx, "[%s] archive %s: %v", report.RunID, archive, err)
			continue
		}
		hlog.CtxInfof(ctx, "[%s] archive %s: seen=%d inserted=%d skipped=%d asset_failures=%d aborted=%v",
			report.RunID, archive, ar.Seen, ar.Inserted, ar.Skipped, ar.AssetFailures, ar.Aborted)
	}

	if counter, ok := d.processor.store.(docstore.Counter); ok {
		if total, err := counter.Count(ctx); err != nil {
			hlog.CtxWarnf(ctx, "[%s] count stored products: %v", report.RunID, err)
		} else {
			report.StoreTotal = total
		}
	}

	report.Duration = time.Since(start)
	hlog.CtxInfof(ctx, "[%s] done: archives=%d failed=%d inserted=%d stored=%d in %s",
		report.RunID, len(archives), report.Failed, report.Inserted, report.StoreTotal, report.Duration)
	return report, nil
}
