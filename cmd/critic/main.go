package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"

	"github.com/dshills/critic/internal/cli"
)

func main() {
	// Load .env file if it exists; real environment variables win.
	_ = godotenv.Load()

	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n%s", r, debug.Stack())
			code = cli.ExitError
		}
	}()
	return cli.Run()
}
