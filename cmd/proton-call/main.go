package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/liangyou/protoncall/internal/cli"
)

var appVersion = "3.1.0"

func main() {
	app := cli.NewApp(os.Stdin, os.Stdout, os.Stderr, appVersion)
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(cli.ExitCode(err))
	}
}
