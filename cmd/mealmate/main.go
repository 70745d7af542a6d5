package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kailas-cloud/mealmate/internal/cli"
)

func main() {
	if err := cli.RootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
