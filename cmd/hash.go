package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"videodedup/fingerprint"
	"videodedup/types"
	"videodedup/ui"
	"videodedup/video"
)

// HashCmd computes the combined perceptual fingerprint for one or more
// videos, given as local paths or http(s)/file URLs. The fingerprint is a
// 64-character bit string derived from the whole clip (wavelet hash XOR
// color hash), suitable for storing next to the video and comparing against
// other fingerprints later.
type HashCmd struct {
	Files []string `arg:"" name:"files" help:"Video files or URLs to fingerprint"`
	JSON  bool     `help:"Emit one JSON object per file instead of styled text"`
}

// Run executes the hash command.
func (cmd *HashCmd) Run(appCtx *types.AppContext) error {
	ctx := context.Background()
	pipeline := fingerprint.NewPipeline(video.NewFFmpegDecoder())
	fetcher := video.NewHTTPFetcher()

	failed := 0
	for _, file := range cmd.Files {
		var vh *fingerprint.VideoHash
		if isRemote(file) {
			// Remote sources pass through a scoped temp download; only
			// the fingerprint survives, the sidecar stays empty.
			fp, err := pipeline.HashURL(ctx, fetcher, file)
			if err != nil {
				fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", file, err)))
				failed++
				continue
			}
			vh = &fingerprint.VideoHash{Fingerprint: fp}
		} else {
			if !video.IsVideoFile(file) {
				fmt.Printf("%s\n", ui.WarnStyle.Render(fmt.Sprintf("⚠️  %s is not a video file, skipping", file)))
				continue
			}
			if err := video.ValidateVideoIntegrity(ctx, file); err != nil {
				fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", file, err)))
				failed++
				continue
			}

			var err error
			vh, err = pipeline.HashFileWithMetadata(ctx, file, file)
			if err != nil {
				fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", file, err)))
				failed++
				continue
			}
		}

		if cmd.JSON {
			enc := json.NewEncoder(os.Stdout)
			if err := enc.Encode(vh); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s", file)))
		fmt.Printf("  fingerprint: %s\n", vh.Fingerprint)
		if vh.Meta != nil {
			fmt.Printf("  %dx%d, %.2fs @ %.2f fps\n", vh.Meta.Width, vh.Meta.Height, vh.Meta.Duration, vh.Meta.FPS)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to hash %d of %d files", failed, len(cmd.Files))
	}
	return nil
}
