//go:build ignore
// +build ignore

package main

import (
	"log"

	mdecho "github.com/fibnas/md-echo/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := mdecho.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "MD-ECHO",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
