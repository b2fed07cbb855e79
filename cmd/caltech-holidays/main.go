package main

import "github.com/ghic-org/caltech-holidays/internal/cli"

func main() {
	cli.Execute()
}
