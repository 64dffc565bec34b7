package main

import (
	"os"

	"sgf_service/cmd/sgf/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
