// Creates a local dev environment in dev/.state: an initialized
// sqlite database and starter config files for hiddengemsd.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hiddengems-bot/lib/configutil/sqlitecfg"
	rosterdb "hiddengems-bot/services/roster/db"
	scheduledb "hiddengems-bot/services/schedule/db"
)

const configTemplate = `{
	database: {
		file: "dev/.state/hiddengems.db",
	},
	discord: {
		// put the bot token in config.local.json5, it must not be
		// committed
		token: "",
		prefix: "!",
		admin_ids: [],
	},
	scraper: {
		// url: "https://hiddengems.gymnasiumsteglitz.de/scrims",
		cloudflare_bypass: false,
	},
	assets: {
		language_icon_dir: "dev/.state/assets/languages",
		twemoji_dir: "dev/.state/assets/twemoji",
	},
}
`

const telemetryTemplate = `{
	otlp: {
		traces: {
			// grpc_endpoint: "localhost:4317",
		},
		metrics: {
			// grpc_endpoint: "localhost:4317",
		},
	},
}
`

func writeIfMissing(path, contents string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0644)
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	for _, dir := range []string{
		"dev/.state",
		"dev/.state/assets/languages",
		"dev/.state/assets/twemoji",
	} {
		err = os.MkdirAll(dir, 0777)
		if err != nil && !os.IsExist(err) {
			return err
		}
	}

	db, err := sqlitecfg.Struct{File: "dev/.state/hiddengems.db"}.
		OpenDB(rosterdb.Schema + scheduledb.Schema)
	if err != nil {
		return err
	}
	db.Close()

	err = writeIfMissing("config.json5", configTemplate)
	if err != nil {
		return err
	}
	err = writeIfMissing("telemetry.json5", telemetryTemplate)
	if err != nil {
		return err
	}

	fmt.Println("database:  dev/.state/hiddengems.db")
	fmt.Println("config:    config.json5 (secrets go into config.local.json5)")
	fmt.Println("telemetry: telemetry.json5")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}
}
