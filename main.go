package main

import (
	"os"

	"github.com/harrisonrobin/agenda/pkg/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
