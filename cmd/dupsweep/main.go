package main

import (
	"fmt"
	"os"

	"dupsweep/internal/app"
)

func main() {
	if err := app.NewCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dupsweep:", err)
		os.Exit(1)
	}
}
