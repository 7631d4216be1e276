package main

import (
	"os"

	"github.com/groupsmith/syndicate/cmd"
	"github.com/groupsmith/syndicate/infra/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.New("main").Errorf("%v", err)
		os.Exit(1)
	}
}
