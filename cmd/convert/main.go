package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/gridiron/internal/convert"
	"github.com/okian/gridiron/pkg/logger"
)

func main() {
	var (
		src         = flag.String("src", "file://./seasons", "Bucket URL holding the CSV season files")
		dst         = flag.String("dst", "", "Bucket URL for the parquet files (default: same as -src)")
		prefix      = flag.String("prefix", "", "Key prefix on both buckets")
		seasons     = flag.String("seasons", "", "Seasons to convert, e.g. 2019,2020 or 2015-2020")
		workers     = flag.Int("workers", runtime.NumCPU(), "Files converted in parallel")
		keepUntyped = flag.Bool("keep-untyped", false, "Keep rows without a play_type")
		overwrite   = flag.Bool("overwrite", false, "Replace parquet files that already exist")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		convert.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWithEncoding("console"); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	list, err := convert.ParseSeasons(*seasons)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &convert.Config{
		Src:         *src,
		Dst:         *dst,
		Prefix:      *prefix,
		Seasons:     list,
		Workers:     *workers,
		KeepUntyped: *keepUntyped,
		Overwrite:   *overwrite,
	}
	if _, err := convert.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "conversion failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
