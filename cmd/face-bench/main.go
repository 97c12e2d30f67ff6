package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/drakos74/face-bench/client/faces"
	"github.com/drakos74/face-bench/infra/config"
	"github.com/drakos74/face-bench/internal/bench"
	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/drakos74/face-bench/internal/metrics"
	"github.com/drakos74/face-bench/internal/storage"
	jsonstore "github.com/drakos74/face-bench/internal/storage/file/json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		data        string
		csv         string
		header      bool
		cfgPath     string
		out         string
		metricsPort int
		verbose     bool
	)
	flag.StringVar(&data, "data", "orl_faces", "directory with one sub-directory of images per subject")
	flag.StringVar(&csv, "csv", "", "csv file with the features followed by the label, used instead of -data")
	flag.BoolVar(&header, "header", false, "the csv file starts with a header line")
	flag.StringVar(&cfgPath, "config", "", "json file with the benchmark config, infra/config/bench.json if empty")
	flag.StringVar(&out, "out", "", "directory to store the reports in")
	flag.IntVar(&metricsPort, "metrics", 0, "port to expose prometheus metrics on, disabled if 0")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := bench.DefaultConfig()
	if cfgPath == "" {
		config.MustLoad("bench", &cfg)
	} else if err := config.Load(cfgPath, &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	validator, err := bench.NewValidator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	shard := storage.VoidShard()
	if out != "" {
		shard = jsonstore.BlobShard(out, storage.ReportsDir)
	}
	store, err := shard("face-bench")
	if err != nil {
		log.Fatal().Err(err).Msg("could not create report storage")
	}
	validator.WithStorage(store)
	if metricsPort > 0 {
		srv := metrics.Observer.Serve(metricsPort)
		defer srv.Close()
	}

	var loader faces.Loader = faces.NewDir(data, cfg.Scale)
	if csv != "" {
		loader = faces.NewCSV(csv, header)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pca := ml.NewPCA(cfg.PCA)
	NewMenu(loader, validator, os.Stdin, os.Stdout,
		bench.NewNearestNeighbor(cfg),
		bench.NewSVM(cfg, nil),
		bench.NewSVM(cfg, &pca),
	).Loop(ctx)
	fmt.Println("bye")
}
