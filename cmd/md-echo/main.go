package main

import (
	"log"

	"github.com/fibnas/md-echo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
