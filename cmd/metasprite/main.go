// Command metasprite imports Aseprite files and writes their atlases as
// images plus a JSON file with sprites, clips, curves and events.
//
//	metasprite [-config settings.toml] [-out dir] [-j N] [-v] files...
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/setanarut/metasprite/config"
	"github.com/setanarut/metasprite/importer"
	"github.com/setanarut/metasprite/metalayer"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "TOML settings `file`")
	outDir := flag.String("out", ".", "output `directory`")
	jobs := flag.Int("j", runtime.NumCPU(), "files imported in parallel")
	verbose := flag.Bool("v", false, "log import stages")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: metasprite [flags] files...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load settings")
		}
	}

	if err := run(flag.Args(), settings, *outDir, *jobs); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func run(files []string, s config.Settings, outDir string, jobs int) error {
	bar := progressbar.Default(int64(len(files)) * int64(importer.InvokeMetaLayers+1))
	bar.Describe("import")
	reg := metalayer.Default()

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for _, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			res, err := importer.Import(data, name, s, reg, importer.WithProgress(func(st importer.Stage) {
				bar.Add(1)
				bar.Describe(fmt.Sprintf("%s: %s", name, st))
			}))
			if err != nil {
				return err
			}
			written, err := export(res, outDir)
			if err != nil {
				return err
			}
			for _, p := range written {
				log.Info().Str("file", name).Str("path", p).Msg("wrote")
			}
			return nil
		})
	}
	err := g.Wait()
	bar.Finish()
	return err
}
