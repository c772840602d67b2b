package main

import (
	"os"

	prepdeckcmder "github.com/papercomputeco/prepdeck/cmd/prepdeck"
)

func main() {
	cmd := prepdeckcmder.NewPrepdeckCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
