package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata" // часовые пояса салонов без зависимости от образа

	"github.com/m04kA/SMC-SalonScheduler/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "salon-scheduler: %v\n", err)
		os.Exit(1)
	}
}
