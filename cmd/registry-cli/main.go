package main

import (
	"context"
	"olasagents-backend/cmd/registry-cli/commands"
	"olasagents-backend/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext(context.Background())
	commands.ExecuteContext(ctx)
}
