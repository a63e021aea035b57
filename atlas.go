// Package atlas is a linked-view dashboard relating the income share held
// by a population group to life expectancy, per country and year.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/atlas/dashboard"
//	    "github.com/spektr-org/atlas/geo"
//	    "github.com/spektr-org/atlas/helpers"
//	    "github.com/spektr-org/atlas/schema"
//	)
//
//	ds, err := helpers.ParseCSVFile("combined_all_years.csv", schema.Default())
//	world, err := geo.LoadGeoJSONFile("world.geojson")
//	ctrl, err := dashboard.New(ds, world)
//	ctrl.SetYear(2000)
//	ctrl.Export("out", render.FormatPNG)
//
// The dataset is filtered by the selected year and drawn into four views:
// two histograms, a scatter plot and a choropleth map. Every view supports
// hover highlighting with a tooltip. Rendering is local and headless; the
// desktop window in cmd/atlas only displays the rasterised surfaces.
package atlas
