package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"hstin/palcolormap/colormap"
	"hstin/palcolormap/internal/config"
	"hstin/palcolormap/internal/db"
	"hstin/palcolormap/internal/render"
	"hstin/palcolormap/parser"
)

func main() {
	// Setup custom usage
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "PAL Colormap Importer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.pal\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  Summary:  %s BR.pal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  LUT:      %s -lut br.webp -lut-width 512 BR.pal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  Catalog:  %s -db br.sqlite BR.pal\n", os.Args[0])
	}

	configFile := flag.String("config", "", "YAML config file")
	lut := flag.String("lut", "", "Write the colormap lookup table as WebP")
	lutWidth := flag.Int("lut-width", 0, "LUT image width (default: one pixel per bin)")
	lutHeight := flag.Int("lut-height", config.DefaultLUTHeight, "LUT image height")
	quality := flag.Int("quality", config.DefaultQuality, "WebP quality (1-100)")
	lossless := flag.Bool("lossless", false, "Encode the LUT losslessly")
	output := flag.String("db", "", "Write the parsed table to an SQLite catalog")
	verbose := flag.Bool("verbose", false, "Show detailed progress")
	help := flag.Bool("help", false, "Show help")

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: Missing input file\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.pal\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	// Flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lut":
			cfg.LUTFile = *lut
		case "lut-width":
			cfg.LUTWidth = *lutWidth
		case "lut-height":
			cfg.LUTHeight = *lutHeight
		case "quality":
			cfg.Quality = *quality
		case "lossless":
			cfg.Lossless = *lossless
		case "db":
			cfg.OutputFile = *output
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	cfg.PalFile = args[0]

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Verbose {
		colormap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	table, err := parser.Parse(cfg.PalFile)
	if err != nil {
		return err
	}

	cm, norm, err := colormap.FromTable(table)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d entries, values %g to %g, %d bins\n",
		cfg.PalFile, len(table.Entries), norm.Min, norm.Max, cm.Resolution())
	if table.Product != "" || table.Units != "" {
		fmt.Printf("  Product: %s  Units: %s\n", table.Product, table.Units)
	}

	if cfg.Verbose {
		for _, e := range table.Entries {
			fmt.Printf("  %10g  %3d %3d %3d  (%s, line %d)\n", e.Value, e.Red, e.Green, e.Blue, e.Tag, e.Line)
		}
	}

	if cfg.LUTFile != "" {
		opts := render.Options{
			Width:    cfg.LUTWidth,
			Height:   cfg.LUTHeight,
			Quality:  cfg.Quality,
			Lossless: cfg.Lossless,
		}
		if err := render.WriteLUT(cfg.LUTFile, cm, opts); err != nil {
			return err
		}
		fmt.Printf("Wrote LUT to %s\n", cfg.LUTFile)
	}

	if cfg.OutputFile != "" {
		database, err := db.InitDB(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to initialize catalog: %w", err)
		}
		defer database.Close()

		if err := db.WriteCatalog(database, table, cm, norm, cfg.PalFile); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		fmt.Printf("Wrote catalog to %s\n", cfg.OutputFile)
	}

	return nil
}
