package main

import (
	"github.com/modctl/modctl/pkg/cli"
)

func main() {
	cli.Execute()
}
