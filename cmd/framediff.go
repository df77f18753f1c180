package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"videodedup/fingerprint"
	"videodedup/types"
	"videodedup/ui"
	"videodedup/video"
)

// FrameDiffCmd compares two videos frame by frame and reports which sampled
// positions diverge, for manual duplicate review. Sources may be local
// paths or http(s)/file URLs; remote sources are downloaded concurrently
// and cleaned up afterwards.
type FrameDiffCmd struct {
	SourceA string `arg:"" name:"source-a" help:"First video (path or URL)"`
	SourceB string `arg:"" name:"source-b" help:"Second video (path or URL)"`
	Frames  int    `help:"Number of frames to sample from each video" default:"10"`
	NoTUI   bool   `name:"no-tui" help:"Disable interactive review and just list divergences"`
	Output  string `help:"Write the JSON report to this path" type:"path"`
}

// diffReportJSON is the serialized form of a divergence report.
type diffReportJSON struct {
	SourceA     string                   `json:"source_a"`
	SourceB     string                   `json:"source_b"`
	Divergences []fingerprint.Divergence `json:"divergences"`
	HashA       string                   `json:"phash_a"`
	HashB       string                   `json:"phash_b"`
}

// Run executes the framediff command.
func (cmd *FrameDiffCmd) Run(appCtx *types.AppContext) error {
	ctx := context.Background()
	comparator := fingerprint.NewComparator(video.NewFFmpegDecoder(), video.NewHTTPFetcher(), cmd.Frames)

	var report *fingerprint.DiffReport
	var err error
	if isRemote(cmd.SourceA) || isRemote(cmd.SourceB) {
		report, err = comparator.CompareURLs(ctx, cmd.SourceA, cmd.SourceB)
	} else {
		report, err = comparator.CompareFiles(ctx, cmd.SourceA, cmd.SourceB)
	}
	if err != nil {
		return fmt.Errorf("failed to compare videos: %w", err)
	}

	export := func() (string, error) {
		path := cmd.Output
		if path == "" {
			path = "framediff-report.json"
		}
		return path, writeReport(path, cmd.SourceA, cmd.SourceB, report)
	}

	if cmd.Output != "" {
		if _, err := export(); err != nil {
			return err
		}
		fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("Report written to %s", cmd.Output)))
	}

	if cmd.NoTUI {
		printReport(cmd.SourceA, cmd.SourceB, report)
		return nil
	}

	items := make([]ui.DivergenceItem, len(report.Divergences))
	for i, d := range report.Divergences {
		items[i] = ui.DivergenceItem{Index: d.Index, Distance: d.Distance}
	}

	model := ui.NewDivergenceModel(cmd.SourceA, cmd.SourceB, items, len(report.FramesA), fingerprint.HashBits, export)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func printReport(sourceA, sourceB string, report *fingerprint.DiffReport) {
	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("A: %s", sourceA)))
	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("B: %s", sourceB)))

	if len(report.Divergences) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ Videos match at every sampled frame"))
		return
	}

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("%d of %d sampled frames diverge:", len(report.Divergences), len(report.FramesA))))
	for _, d := range report.Divergences {
		fmt.Printf("  frame %2d: %d/%d bits differ\n", d.Index, d.Distance, fingerprint.HashBits)
	}
}

func writeReport(path, sourceA, sourceB string, report *fingerprint.DiffReport) error {
	out := diffReportJSON{
		SourceA:     sourceA,
		SourceB:     sourceB,
		Divergences: report.Divergences,
		HashA:       string(report.HashA),
		HashB:       string(report.HashB),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isRemote(source string) bool {
	return strings.Contains(source, "://")
}
