package cmd

import (
	"context"
	"fmt"

	"videodedup/fingerprint"
	"videodedup/types"
	"videodedup/ui"
	"videodedup/video"
)

// CompareCmd compares videos pairwise by combined fingerprint and reports
// which pairs are near-duplicates at the given similarity threshold.
// Sources may be local paths or http(s)/file URLs.
type CompareCmd struct {
	Files     []string `arg:"" name:"files" help:"Video files or URLs to compare"`
	Threshold float64  `help:"Similarity percentage at which two videos count as duplicates" default:"85"`
}

// Run executes the compare command.
func (cmd *CompareCmd) Run(appCtx *types.AppContext) error {
	if len(cmd.Files) < 2 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ Need at least 2 files to compare"))
		return nil
	}

	ctx := context.Background()
	pipeline := fingerprint.NewPipeline(video.NewFFmpegDecoder())
	fetcher := video.NewHTTPFetcher()

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Fingerprinting %d files...", len(cmd.Files))))

	type fileHash struct {
		File string
		Hash fingerprint.Combined
	}

	var hashes []fileHash
	for _, file := range cmd.Files {
		var h fingerprint.Combined
		var err error
		if isRemote(file) {
			h, err = pipeline.HashURL(ctx, fetcher, file)
		} else {
			if !video.IsVideoFile(file) {
				fmt.Printf("%s\n", ui.WarnStyle.Render(fmt.Sprintf("⚠️  %s is not a video file, skipping", file)))
				continue
			}
			if err := video.ValidateVideoIntegrity(ctx, file); err != nil {
				fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error fingerprinting %s: %v", file, err)))
				continue
			}
			h, err = pipeline.HashFile(ctx, file)
		}
		if err != nil {
			fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error fingerprinting %s: %v", file, err)))
			continue
		}
		hashes = append(hashes, fileHash{File: file, Hash: h})
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Comparing %d files (threshold: %.1f%%):", len(hashes), cmd.Threshold)))

	found := false
	for i := 0; i < len(hashes); i++ {
		for j := i + 1; j < len(hashes); j++ {
			sim, err := hashes[i].Hash.Similarity(hashes[j].Hash)
			if err != nil {
				fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error comparing %s and %s: %v", hashes[i].File, hashes[j].File, err)))
				continue
			}

			if sim >= cmd.Threshold {
				fmt.Printf("🎯 Duplicate (%.1f%% similar): %s ↔ %s\n", sim, hashes[i].File, hashes[j].File)
				found = true
			}
		}
	}

	if !found {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No duplicates found within threshold"))
	}

	return nil
}
