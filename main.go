package main

import (
	"os"

	"github.com/adalundhe/volcans/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
