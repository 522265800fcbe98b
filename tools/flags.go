package tools

import (
	"flag"
	"log"
	"os"
	"strconv"
)

const (
	CommandRun = "run"
	CommandDtm = "dtm"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type PipelineFlags struct {
	Input        *string  `json:"input"`
	Polygons     *string  `json:"polygons"`
	Srid         *int     `json:"srid"`
	CellSize     *float64 `json:"cell_size"`
	ClassAttr    *string  `json:"class_attr"`
	TerrainClass *int     `json:"terrain_class"`
	Folder       *bool
	Recursive    *bool
	Workers      *int
}

type FlagsForCommandRun struct {
	PipelineFlags
	OutputCsv     *string
	OutputGeojson *string
	OutputRaster  *string
	Sqlite        *string
	Report        *string
	Silent        *bool
	LogTimestamp  *bool
	Help          *bool
	Version       *bool
}

type FlagsForCommandDtm struct {
	PipelineFlags
	OutputRaster *string
	Silent       *bool
	LogTimestamp *bool
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "v", false, "Displays the version of heapvol.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandRun(args []string) FlagsForCommandRun {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-run", flag.ExitOnError)

	pipelineFlags := definePipelineFlags(flagCommand)
	outputRaster := defineStringFlagCommand(flagCommand, "raster", "d", "dtm.tif", "Specifies the output GeoTIFF path for the ground surface raster.")
	outputCsv := defineStringFlagCommand(flagCommand, "csv", "o", "results.csv", "Specifies the output CSV path for the result table.")
	outputGeojson := defineStringFlagCommand(flagCommand, "geojson", "j", "results.geojson", "Specifies the output GeoJSON path for the result geometry collection.")
	sqlite := defineStringFlagCommand(flagCommand, "sqlite", "", "", "Optionally stores the run results into the given SQLite database.")
	report := defineStringFlagCommand(flagCommand, "report", "", "", "Optionally renders an HTML volume report at the given path.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")
	help := defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help.")
	version := defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of heapvol.")

	flagCommand.Parse(args)

	return FlagsForCommandRun{
		PipelineFlags: pipelineFlags,
		OutputRaster:  outputRaster,
		OutputCsv:     outputCsv,
		OutputGeojson: outputGeojson,
		Sqlite:        sqlite,
		Report:        report,
		Silent:        silent,
		LogTimestamp:  logTimestamp,
		Help:          help,
		Version:       version,
	}
}

func ParseFlagsForCommandDtm(args []string) FlagsForCommandDtm {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-dtm", flag.ExitOnError)

	pipelineFlags := definePipelineFlags(flagCommand)
	outputRaster := defineStringFlagCommand(flagCommand, "raster", "d", "dtm.tif", "Specifies the output GeoTIFF path for the ground surface raster.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")

	flagCommand.Parse(args)

	return FlagsForCommandDtm{
		PipelineFlags: pipelineFlags,
		OutputRaster:  outputRaster,
		Silent:        silent,
		LogTimestamp:  logTimestamp,
	}
}

// definePipelineFlags registers the flags shared by all subcommands. Defaults
// can be overridden through HEAPVOL_* environment variables (typically loaded
// from an .env file); explicit flags win over the environment.
func definePipelineFlags(flagCommand *flag.FlagSet) PipelineFlags {
	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input las file/folder.")
	polygons := defineStringFlagCommand(flagCommand, "polygons", "p", "", "Specifies the input GeoJSON file with candidate heap polygons.")
	srid := defineIntFlagCommand(flagCommand, "srid", "e", envIntOr("HEAPVOL_SRID", 2180), "EPSG srid code the pipeline works in. Polygons are reprojected into it.")
	cellSize := defineFloat64FlagCommand(flagCommand, "cell-size", "c", envFloatOr("HEAPVOL_CELL_SIZE", 0.1), "DTM grid spacing in meters.")
	classAttr := defineStringFlagCommand(flagCommand, "class-attr", "a", envStringOr("HEAPVOL_CLASS_ATTR", "pred_class"), "Name of the per-point ground-classification attribute. Use 'classification' for the standard LAS field.")
	terrainClass := defineIntFlagCommand(flagCommand, "terrain-class", "g", envIntOr("HEAPVOL_TERRAIN_CLASS", 0), "Attribute value that marks terrain returns.")
	folder := defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all las files from input folder. Input must be a folder if specified")
	recursive := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all .las files inside the subfolders")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", 1, "Number of polygons processed concurrently. Output order is stable regardless.")

	return PipelineFlags{
		Input:        input,
		Polygons:     polygons,
		Srid:         srid,
		CellSize:     cellSize,
		ClassAttr:    classAttr,
		TerrainClass: terrainClass,
		Folder:       folder,
		Recursive:    recursive,
		Workers:      workers,
	}
}

func envStringOr(key string, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envIntOr(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envFloatOr(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
