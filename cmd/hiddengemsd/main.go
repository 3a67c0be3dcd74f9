package main

import (
	"context"
	"flag"

	"hiddengems-bot/internal/discord"
	"hiddengems-bot/lib/configutil"
	"hiddengems-bot/lib/configutil/sqlitecfg"
	"hiddengems-bot/lib/render"
	"hiddengems-bot/lib/render/icons"
	"hiddengems-bot/lib/restyutil"
	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/lib/telemetry"
	"hiddengems-bot/lib/util/serviceutil"
	"hiddengems-bot/services/leaderboard"
	"hiddengems-bot/services/roster"
	rosterdb "hiddengems-bot/services/roster/db"
	"hiddengems-bot/services/schedule"
	scheduledb "hiddengems-bot/services/schedule/db"
)

type ScraperConfig struct {
	// defaults to the public leaderboard page
	Url              string `json:"url"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

type AssetsConfig struct {
	// directory of <language>-logo-256.png icons
	LanguageIconDir string `json:"language_icon_dir"`
	// directory of twemoji pngs named by codepoint
	TwemojiDir string `json:"twemoji_dir"`
}

type Config struct {
	Database sqlitecfg.Struct `json:"database"`
	Discord  discord.Config   `json:"discord"`
	Scraper  ScraperConfig    `json:"scraper"`
	Assets   AssetsConfig     `json:"assets"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx, cancel := context.WithCancel(serviceutil.SignalContext())
	defer cancel()

	t, err := telemetry.SetupFromEnv(ctx, "hiddengemsd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InitSlog(*verbose)
	telemetry.InstrumentPerfStats(ctx)

	config, err := configutil.ReadRecursively[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	db, err := config.Database.OpenDB(rosterdb.Schema + scheduledb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer db.Close()

	clientOpts := hiddengems.ClientOptions{
		Url:              config.Scraper.Url,
		CloudflareBypass: config.Scraper.CloudflareBypass,
	}
	if *verbose {
		clientOpts.InstrumentOutput = restyutil.NewFilesystemOutput(".dev/resty/hiddengems")
		hiddengems.SetDebugOutput(restyutil.NewFilesystemOutput(".dev/parser/hiddengems"))
	}
	fetcher := hiddengems.NewClient(clientOpts)
	images, err := render.NewImageRenderer(icons.NewRegistry(
		config.Assets.LanguageIconDir,
		config.Assets.TwemojiDir,
	))
	if err != nil {
		serviceutil.Fatal("failed to init image renderer", err)
	}

	rosterStore := roster.NewStore(db)
	targets := schedule.NewStore(db)
	board := leaderboard.NewService(fetcher, rosterStore, images)

	bot, err := discord.NewBot(config.Discord, board, fetcher, rosterStore, targets, cancel)
	if err != nil {
		serviceutil.Fatal("failed to create discord session", err)
	}
	err = bot.Open()
	if err != nil {
		serviceutil.Fatal("failed to connect to discord", err)
	}
	defer bot.Close()

	daemon := leaderboard.NewDaemon(board, targets, bot.Destination)
	go daemon.Run(ctx)

	<-ctx.Done()
}
