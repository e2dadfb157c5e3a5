package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/fittrack/internal/client/cli"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := cli.NewRootCmd(cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}

}
