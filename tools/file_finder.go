package tools

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/terramensura/heapvol/internal/pipeline"
)

type FileFinder interface {
	GetCloudFilesToProcess(opts *pipeline.Options) []string
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetCloudFilesToProcess(opts *pipeline.Options) []string {
	// If folder processing is not enabled then las file is given by the input flag,
	// otherwise look for las in the input folder, eventually excluding nested
	// folders if the recursive flag is disabled
	if !opts.FolderInput {
		return []string{opts.InputCloud}
	}

	return f.getLasFilesFromInputFolder(opts)
}

func (f *StandardFileFinder) getLasFilesFromInputFolder(opts *pipeline.Options) []string {
	var lasFiles = make([]string, 0)

	baseInfo, _ := os.Stat(opts.InputCloud)
	err := filepath.Walk(
		opts.InputCloud,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			} else {
				if strings.ToLower(filepath.Ext(info.Name())) == ".las" {
					lasFiles = append(lasFiles, path)
				}
			}
			return nil
		},
	)

	if err != nil {
		log.Fatal(err)
	}

	return lasFiles
}
