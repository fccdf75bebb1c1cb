package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/symcheck-go/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	root, cleanup := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose()})
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("SYMCHECK_DEBUG"), "1") || strings.EqualFold(os.Getenv("SYMCHECK_DEBUG"), "true")
}
