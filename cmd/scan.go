package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"

	"videodedup/fingerprint"
	"videodedup/types"
	"videodedup/ui"
	"videodedup/video"
)

// ScanCmd walks a directory tree, fingerprints every video with a worker
// pool and reports near-duplicate pairs.
type ScanCmd struct {
	Directory string  `arg:"" name:"directory" help:"Directory to scan for duplicate videos" type:"existingdir" default:"."`
	Threshold float64 `help:"Similarity percentage at which two videos count as duplicates" default:"85"`
	Workers   int     `help:"Number of parallel hash workers" default:"0"`
}

// Run executes the scan command.
func (cmd *ScanCmd) Run(appCtx *types.AppContext) error {
	version := types.DefaultVersion
	if appCtx != nil {
		version = appCtx.Version
	}
	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("videodedup %s", version)))
	fmt.Printf("Scanning %s for near-duplicate videos...\n", cmd.Directory)

	files, err := findVideoFiles(cmd.Directory)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	if len(files) < 2 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ Fewer than two videos found, nothing to compare"))
		return nil
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	hashes := hashAll(files, workers)
	if len(hashes) < 2 {
		fmt.Printf("%s\n", ui.WarnStyle.Render("⚠️  Fewer than two videos could be fingerprinted"))
		return nil
	}

	found := 0
	names := lo.Keys(hashes)
	sort.Strings(names)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			sim, err := hashes[names[i]].Similarity(hashes[names[j]])
			if err != nil {
				continue
			}
			if sim >= cmd.Threshold {
				fmt.Printf("🎯 %.1f%%  %s ↔ %s\n", sim, names[i], names[j])
				found++
			}
		}
	}

	if found == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No near-duplicate videos found"))
	} else {
		fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d near-duplicate pair(s)", found)))
	}
	return nil
}

// findVideoFiles collects every video file under the directory.
func findVideoFiles(directory string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && video.IsVideoFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// hashAll fingerprints all files with a bounded worker pool, driving a
// progress bar from the completion events.
func hashAll(files []string, workers int) map[string]fingerprint.Combined {
	ctx := context.Background()
	bar := progressbar.Default(int64(len(files)), "fingerprinting")

	jobs := make(chan string, len(files))
	var mu sync.Mutex
	hashes := make(map[string]fingerprint.Combined, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker owns its own pipeline; hash computations share
			// no mutable state.
			pipeline := fingerprint.NewPipeline(video.NewFFmpegDecoder())
			for file := range jobs {
				// Corrupt or truncated files fail fast here instead of
				// wasting a full extraction run.
				if err := video.ValidateVideoIntegrity(ctx, file); err != nil {
					_ = bar.Add(1)
					continue
				}
				h, err := pipeline.HashFile(ctx, file)
				if err == nil {
					mu.Lock()
					hashes[file] = h
					mu.Unlock()
				}
				_ = bar.Add(1)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()
	_ = bar.Finish()

	return hashes
}
