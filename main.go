package main

import (
	"os"

	"github.com/gerunddev/xmindtool/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
