package main

import (
	"os"

	"github.com/eltonarunga/lugha-learner-kenya/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
