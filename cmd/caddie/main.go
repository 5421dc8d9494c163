package main

import "github.com/fairwaylabs/caddie/internal/cli"

func main() {
	cli.Execute()
}
