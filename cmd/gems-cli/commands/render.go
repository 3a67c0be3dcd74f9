package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"hiddengems-bot/lib/render"
	"hiddengems-bot/lib/render/icons"
	"hiddengems-bot/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	renderOut      *string
	renderTop      *int
	renderMode     *string
	renderLangDir  *string
	renderEmojiDir *string
)

func init() {
	renderOut = renderCmd.Flags().String("out", ".", "Directory to write the rendered output to.")
	renderTop = renderCmd.Flags().Int("top", 0, "Only render the first N rows. 0 renders everything.")
	renderMode = renderCmd.Flags().String("mode", "image", "Output mode, either image or text.")
	renderLangDir = renderCmd.Flags().String("language-icons", "", "Directory of <language>-logo-256.png icons.")
	renderEmojiDir = renderCmd.Flags().String("twemoji", "", "Directory of twemoji pngs named by codepoint.")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [--out <dir>] [--top <n>] [--mode image|text]",
	Short: "Renders the leaderboard to PNG pages or text blocks on disk.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := loadSnapshot(cmd.Context())

		var blocks []render.OutputBlock
		switch *renderMode {
		case "text":
			blocks = render.RenderText(snapshot.Records, *renderTop)
		case "image":
			renderer, err := render.NewImageRenderer(
				icons.NewRegistry(*renderLangDir, *renderEmojiDir),
			)
			if err != nil {
				serviceutil.Fatal("failed to init image renderer", err)
			}
			blocks, err = renderer.Render(snapshot.Records, *renderTop)
			if err != nil {
				serviceutil.Fatal("failed to render leaderboard", err)
			}
		default:
			serviceutil.Fatal("unknown mode", fmt.Errorf("%q is neither image nor text", *renderMode))
		}

		for i, block := range blocks {
			var path string
			var err error
			switch block.Kind {
			case render.KindImage:
				path = filepath.Join(*renderOut, fmt.Sprintf("leaderboard-%d.png", i+1))
				err = os.WriteFile(path, block.Bytes, 0644)
			default:
				path = filepath.Join(*renderOut, fmt.Sprintf("leaderboard-%d.txt", i+1))
				err = os.WriteFile(path, []byte(block.Body), 0644)
			}
			if err != nil {
				serviceutil.Fatal("failed to write output", err)
			}
			fmt.Println(path)
		}
	},
}
