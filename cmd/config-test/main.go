package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/sstclim/internal/cache"
	"github.com/chrissnell/sstclim/internal/service"
	"github.com/chrissnell/sstclim/pkg/climatology"
	"github.com/chrissnell/sstclim/pkg/config"
	"github.com/chrissnell/sstclim/pkg/gridstore"
	"go.uber.org/zap"
)

func main() {
	var (
		yamlFile = flag.String("yaml", "", "Path to YAML configuration file")
		date     = flag.String("date", time.Now().UTC().Format(climatology.DateLayout), "Date used for the trial interpolation")
	)
	flag.Parse()

	if *yamlFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> [-date YYYY-MM-DD]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Test")
	fmt.Println("==================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	provider := config.NewYAMLProvider(*yamlFile)
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Configuration valid, REST server on %s:%d\n", cfg.REST.ListenAddr, cfg.REST.Port)

	ctx := context.Background()
	svc := service.New(nil, zap.NewNop().Sugar())
	failed := false

	fmt.Printf("\nClimatology sources: %d\n", len(cfg.Climatology))
	for _, src := range cfg.Climatology {
		if !checkSource(ctx, svc, src, *date) {
			failed = true
		}
	}

	fmt.Println("\nCache:")
	if cfg.Cache.Path == "" {
		fmt.Println("  disabled")
	} else if c, err := cache.Open(cfg.Cache.Path); err != nil {
		fmt.Printf("✗ %s: %v\n", cfg.Cache.Path, err)
		failed = true
	} else {
		n, err := c.Len(ctx)
		c.Close()
		if err != nil {
			fmt.Printf("✗ %s: %v\n", cfg.Cache.Path, err)
			failed = true
		} else {
			fmt.Printf("✓ %s (%d cached grids)\n", cfg.Cache.Path, n)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// checkSource loads one source and runs a trial interpolation
func checkSource(ctx context.Context, svc *service.Service, src config.ClimatologyData, date string) bool {
	name := src.ExposedName()

	store, err := gridstore.Open(src.File)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", name, err)
		return false
	}
	field, err := store.Field(src.Name)
	if err != nil {
		fmt.Printf("✗ %s: %v (variables in file: %v)\n", name, err, store.Names())
		return false
	}
	svc.Register(ctx, name, field)

	s, err := svc.Summary(ctx, name, date)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", name, err)
		return false
	}

	rows, cols := field.Dims()
	fmt.Printf("✓ %s: %s[%s] %dx%d, %s mean %.3f (%d valid, %d missing)\n",
		name, src.File, src.Name, rows, cols, date, s.Mean, s.Valid, s.Missing)
	return true
}
