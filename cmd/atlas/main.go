package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spektr-org/atlas/config"
	"github.com/spektr-org/atlas/dashboard"
	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/geo"
	"github.com/spektr-org/atlas/helpers"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/schema"
)

// ============================================================================
// ATLAS CLI — Income share vs. life expectancy, four linked views
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	dataPath := flag.String("data", "", "Path to the combined CSV dataset (required)")
	geoPath := flag.String("geo", "", "Path to country boundaries GeoJSON")
	configPath := flag.String("config", "", "Path to YAML presentation config")
	year := flag.Int("year", 0, "Initial year (default: latest in the dataset)")
	poverty := flag.String("poverty", "", "Initial income-share metric: poorest_50, middle_40, next_9, richest_1")
	mapMetric := flag.String("map", "", "Initial map metric: life or poverty")
	exportDir := flag.String("export", "", "Render all views into this directory and exit")
	format := flag.String("format", "svg", "Export format: svg, png")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Atlas — income share and life expectancy, linked

Usage:
  atlas --data combined_all_years.csv --geo world.geojson
  atlas --data combined_all_years.csv --geo world.geojson --year 2000 --poverty richest_1 --map poverty
  atlas --data combined_all_years.csv --geo world.geojson --export out/ --format png

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Views:
  poverty-histogram   distribution of the selected income share
  life-histogram      distribution of life expectancy
  scatter             income share against life expectancy
  map                 choropleth of life expectancy or the income share
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("atlas %s\n", version)
		os.Exit(0)
	}

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --data is required")
		flag.Usage()
		os.Exit(1)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *configPath != "" {
		log.Printf("🔧 Atlas: config %s", *configPath)
	}
	if *year != 0 {
		cfg.Controls.Year = *year
	}
	if *poverty != "" {
		m, err := dashboard.ParsePovertyMetric(*poverty)
		if err != nil {
			fatalf("%v", err)
		}
		cfg.Controls.PovertyMetric = string(m)
	}
	if *mapMetric != "" {
		m, err := dashboard.ParseMapMetric(*mapMetric)
		if err != nil {
			fatalf("%v", err)
		}
		cfg.Controls.MapMetric = string(m)
	}

	// ── Data ──────────────────────────────────────────────────────────────
	ds, err := helpers.ParseCSVFile(*dataPath, schema.Default())
	if err != nil {
		fatalf("Failed to load dataset: %v", err)
	}
	minYear, maxYear, _ := ds.YearRange()
	log.Printf("📂 Atlas: %d records, %d entities, %d years (%d–%d)",
		ds.Len(), len(engine.UniqueValues(ds.View(), engine.DimEntity)), len(ds.Years()), minYear, maxYear)

	var boundaries *geo.Collection
	if *geoPath != "" {
		boundaries, err = geo.LoadGeoJSONFile(*geoPath)
		if err != nil {
			fatalf("Failed to load boundaries: %v", err)
		}
		log.Printf("🗺️ Atlas: %d boundaries, %d with country codes", boundaries.Len(), len(boundaries.Codes()))
	} else {
		log.Printf("⚠️ Atlas: no --geo given, the map shows the legend only")
	}

	opts := []dashboard.Option{dashboard.WithConfig(cfg)}

	// ── Headless export ───────────────────────────────────────────────────
	if *exportDir != "" {
		f, err := render.ParseFormat(*format)
		if err != nil {
			fatalf("%v", err)
		}
		ctrl, err := dashboard.New(ds, boundaries, opts...)
		if err != nil {
			fatalf("Failed to start dashboard: %v", err)
		}
		paths, err := ctrl.Export(*exportDir, f)
		if err != nil {
			fatalf("Export failed: %v", err)
		}
		log.Printf("✅ Atlas: exported %d views to %s", len(paths), *exportDir)
		return
	}

	// ── Desktop ───────────────────────────────────────────────────────────
	if err := runUI(ds, boundaries, opts); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
