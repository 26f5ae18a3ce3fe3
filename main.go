package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/satimage_bridge/biz/service/migrate"
	"github.com/yi-nology/satimage_bridge/pkg/config"
	"github.com/yi-nology/satimage_bridge/pkg/database"
	"github.com/yi-nology/satimage_bridge/pkg/docstore/backend"
	"github.com/yi-nology/satimage_bridge/pkg/lock"
	pkgredis "github.com/yi-nology/satimage_bridge/pkg/redis"
	"github.com/yi-nology/satimage_bridge/pkg/storage"
)

const (
	lockTTL  = 6 * time.Hour
	lockWait = 30 * time.Second
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type commonFlags struct {
	configPath string
	dbURL      string
	verbose    bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "config.yaml", "path to config.yaml")
	fs.StringVar(&f.dbURL, "db", "", "target store url: sqlite://path, postgres://..., mysql://dsn, firestore://project or mongodb://host/db")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
}

// load reads the config file and applies command line overrides on top.
func (f *commonFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if err := database.ApplyURL(&cfg.Database, f.dbURL); err != nil {
		return nil, err
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "serve" {
		os.Exit(runServe(args[1:]))
	}
	os.Exit(runMigrate(args))
}

func runMigrate(args []string) int {
	fs := flag.NewFlagSet("satimage_bridge", flag.ContinueOnError)
	var common commonFlags
	var inputs stringList
	var outDir string
	common.register(fs)
	fs.Var(&inputs, "i", "input directory or archive (repeatable)")
	fs.StringVar(&outDir, "o", "", "output directory for derived assets")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: satimage_bridge [flags] [input ...]\n       satimage_bridge serve [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Flags must come before positional inputs. Repeat -i for several inputs:\n  satimage_bridge -i d1 -i d2 -o out\n  satimage_bridge -o out d1 d2\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	all, err := collectInputs(inputs, fs.Args())
	if err != nil {
		fmt.Fprintf(fs.Output(), "%v\n", err)
		fs.Usage()
		return 2
	}
	inputs = all

	cfg, err := common.load()
	if err != nil {
		hlog.Errorf("load config: %v", err)
		return 1
	}
	if outDir != "" {
		cfg.Storage.Type = "local"
		cfg.Storage.Local.BasePath = outDir
	}
	if err := cfg.Validate(); err != nil {
		hlog.Errorf("invalid config: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrateAll(ctx, cfg, inputs); err != nil {
		hlog.Errorf("%v", err)
		return 1
	}
	return 0
}

// collectInputs joins -i values with positional inputs. flag stops at the first
// non-flag argument, so a flag left in rest was meant for the parser and is
// rejected instead of being taken as an input path.
func collectInputs(flagInputs, rest []string) ([]string, error) {
	for _, arg := range rest {
		if len(arg) > 1 && strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %s given after input paths; put flags first or repeat -i for each input", arg)
		}
	}
	inputs := make([]string, 0, len(flagInputs)+len(rest))
	inputs = append(inputs, flagInputs...)
	return append(inputs, rest...), nil
}

func migrateAll(ctx context.Context, cfg *config.Config, inputs []string) error {
	policy, err := migrate.PolicyFor(cfg.Migration.OnDuplicate)
	if err != nil {
		return err
	}

	store, err := backend.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	out, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open output storage: %w", err)
	}
	if c, ok := out.(io.Closer); ok {
		defer c.Close()
	}

	opts := []migrate.DriverOption{migrate.WithExtensions(cfg.Migration.Extensions)}
	client, err := pkgredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		defer client.Close()
		opts = append(opts, migrate.WithLock(lock.New(client, cfg.Redis.LockKey, lockTTL, lockWait)))
	}

	hlog.Infof("migrating %v into %s store, assets to %s storage (on_duplicate=%s)",
		inputs, cfg.Database.Driver, out.Type(), cfg.Migration.OnDuplicate)

	materializer := migrate.NewMaterializer(out, cfg.Migration.BoxSize)
	transformer := migrate.NewTransformer(materializer, time.Now)
	processor := migrate.NewProcessor(store, materializer, transformer, policy)

	_, err = migrate.NewDriver(processor, opts...).Run(ctx, inputs)
	return err
}

func setupLogging(level string) {
	switch strings.ToLower(level) {
	case "trace":
		hlog.SetLevel(hlog.LevelTrace)
	case "debug":
		hlog.SetLevel(hlog.LevelDebug)
	case "warn", "warning":
		hlog.SetLevel(hlog.LevelWarn)
	case "error":
		hlog.SetLevel(hlog.LevelError)
	default:
		hlog.SetLevel(hlog.LevelInfo)
	}
}
