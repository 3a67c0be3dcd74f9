package main

import (
	"context"

	"hiddengems-bot/cmd/gems-cli/commands"
	"hiddengems-bot/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "gems-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
