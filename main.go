package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"videodedup/cmd"
	"videodedup/types"
	"videodedup/ui"
	"videodedup/utils"
)

var Version = "dev"

type CLI struct {
	Hash      cmd.HashCmd      `cmd:"" help:"Compute the combined perceptual fingerprint of video files"`
	Compare   cmd.CompareCmd   `cmd:"" help:"Compare videos pairwise and report near-duplicates"`
	Scan      cmd.ScanCmd      `cmd:"" help:"Scan a directory tree for near-duplicate videos"`
	Framediff cmd.FrameDiffCmd `cmd:"" help:"Report which sampled frames differ between two videos"`
}

func main() {
	if err := utils.ValidateFFmpegDependencies(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %v", err)))
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("videodedup"),
		kong.Description("Perceptual video fingerprinting and duplicate detection"))

	appCtx := &types.AppContext{Version: Version}
	err := ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
