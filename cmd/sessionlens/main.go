package main

import "github.com/johns/sessionlens/internal/cli"

func main() {
	cli.Execute()
}
