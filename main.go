package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/terramensura/heapvol/internal/converters/proj_converter"
	"github.com/terramensura/heapvol/internal/pipeline"
	"github.com/terramensura/heapvol/pkg"
	"github.com/terramensura/heapvol/tools"
)

const VERSION = "0.3.1"

const logo = `
 _                               _
| |__   ___  __ _ _ ____   _____ | |
| '_ \ / _ \/ _  | '_ \ \ / / _ \| |
| | | |  __/ (_| | |_) \ V / (_) | |
|_| |_|\___|\__,_| .__/ \_/ \___/|_|
                 |_|  heap volume & coverage from airborne LiDAR
`

func main() {
	log.SetPrefix("[heapvol] ")
	log.SetFlags(log.LUTC | log.Ldate | log.Lmicroseconds | log.Lshortfile)

	// flag defaults can come from a local .env file; missing file is fine
	_ = godotenv.Load()

	flagsGlobal := tools.ParseFlagsGlobal()
	log.Println(tools.FmtJSONString(flagsGlobal))

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("Please specify a subcommand [run|dtm].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandRun:
		mainCommandRun(args)
	case tools.CommandDtm:
		mainCommandDtm(args)
	default:
		log.Fatalf("Unrecognized command [%q]. Command must be one of [run|dtm]", cmd)
	}
}

func mainCommandRun(args []string) {
	flags := tools.ParseFlagsForCommandRun(args)

	if *flags.Help {
		showHelp()
		return
	}

	if *flags.Version {
		printVersion()
		return
	}

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}

	opts := pipeline.Options{
		InputCloud:    *flags.Input,
		InputPolygons: *flags.Polygons,
		TargetSrid:    *flags.Srid,
		CellSize:      *flags.CellSize,
		ClassAttr:     *flags.ClassAttr,
		TerrainClass:  uint8(*flags.TerrainClass),
		FolderInput:   *flags.Folder,
		Recursive:     *flags.Recursive,
		Workers:       *flags.Workers,
		OutputRaster:  *flags.OutputRaster,
		OutputCSV:     *flags.OutputCsv,
		OutputGeoJSON: *flags.OutputGeojson,
		SQLitePath:    *flags.Sqlite,
		ReportPath:    *flags.Report,
	}

	if msg, res := validateOptionsForCommandRun(&opts); !res {
		log.Fatal("Error parsing input parameters: " + msg)
	}

	err := pkg.NewPipeline(tools.NewStandardFileFinder(), proj_converter.NewProjCoordinateConverter()).RunPipeline(&opts)

	if err != nil {
		log.Fatal("Error while estimating volumes: ", err)
	} else {
		tools.LogOutput("Estimation Completed")
	}
}

func validateOptionsForCommandRun(opts *pipeline.Options) (string, bool) {
	if err := opts.Validate(); err != nil {
		return err.Error(), false
	}
	if _, err := os.Stat(opts.InputCloud); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if opts.InputPolygons == "" {
		return "Input polygon file is required for the run command", false
	}
	// fail fast on an unreadable polygon file before touching the cloud
	tools.OpenFileOrFail(opts.InputPolygons).Close()

	for _, out := range []string{opts.OutputRaster, opts.OutputCSV, opts.OutputGeoJSON} {
		if out == "" {
			continue
		}
		if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(out)); err != nil {
			return "Cannot create output folder: " + err.Error(), false
		}
	}

	return "", true
}

func mainCommandDtm(args []string) {
	flags := tools.ParseFlagsForCommandDtm(args)

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}

	opts := pipeline.Options{
		InputCloud:   *flags.Input,
		TargetSrid:   *flags.Srid,
		CellSize:     *flags.CellSize,
		ClassAttr:    *flags.ClassAttr,
		TerrainClass: uint8(*flags.TerrainClass),
		FolderInput:  *flags.Folder,
		Recursive:    *flags.Recursive,
		OutputRaster: *flags.OutputRaster,
	}

	if msg, res := validateOptionsForCommandDtm(&opts); !res {
		log.Fatal("Error parsing input parameters: " + msg)
	}

	err := pkg.NewPipeline(tools.NewStandardFileFinder(), proj_converter.NewProjCoordinateConverter()).RunPipeline(&opts)

	if err != nil {
		log.Fatal("Error while building the ground surface: ", err)
	} else {
		tools.LogOutput("Ground surface completed")
	}
}

func validateOptionsForCommandDtm(opts *pipeline.Options) (string, bool) {
	if err := opts.Validate(); err != nil {
		return err.Error(), false
	}
	if _, err := os.Stat(opts.InputCloud); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if opts.OutputRaster == "" {
		return "Output raster path is required for the dtm command", false
	}
	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(opts.OutputRaster)); err != nil {
		return "Cannot create output folder: " + err.Error(), false
	}

	return "", true
}

func printLogo() {
	fmt.Print(logo)
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("heapvol processes classified LAS point clouds and estimates volume and point coverage for candidate heap polygons")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
