package main

import "cutaway/internal/cli"

func main() {
	cli.Main()
}
