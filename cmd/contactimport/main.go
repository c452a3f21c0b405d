package main

import (
	"context"
	"contactmanager/contact"
	"contactmanager/pkg/config"
	"contactmanager/pkg/logger"
	"contactmanager/storage"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

// CLI imports contacts from a file into the store chosen by STORAGE_DRIVER.
type CLI struct {
	File   string `arg:"" type:"existingfile" help:"CSV or YAML file with contacts."`
	Format string `help:"Input format; auto picks it from the file extension." enum:"auto,csv,yaml" default:"auto"`
	DryRun bool   `help:"Validate rows without storing them."`
}

type app struct {
	ctx    context.Context
	cfg    *config.Config
	log    *zap.SugaredLogger
	stdout io.Writer
}

func (c *CLI) Run(a *app) error {
	format, err := detectFormat(c.File, c.Format)
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := readRecords(f, format)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	var svc contact.Service
	if !c.DryRun {
		store, err := storage.Open(a.ctx, a.cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if store.Driver == config.StorageMemory {
			a.log.Warnw("importing into the in-memory store; contacts are discarded on exit")
		}
		svc = contact.NewUsecase(store)
	}

	sum, err := importRecords(a.ctx, svc, records, a.stdout)
	if err != nil {
		return err
	}
	a.log.Infow("import finished", "file", c.File, "accepted", sum.Accepted, "rejected", sum.Rejected, "dry_run", c.DryRun)
	if sum.Rejected > 0 {
		return fmt.Errorf("%d of %d rows rejected", sum.Rejected, len(records))
	}
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contactimport"),
		kong.Description("Import contacts from CSV or YAML."),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadConfig()
	kctx.FatalIfErrorf(err)

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	kctx.FatalIfErrorf(err)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&app{ctx: ctx, cfg: cfg, log: log, stdout: os.Stdout})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
