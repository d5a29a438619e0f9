package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/agenthands/tiparm/cmd/tiparm/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
