package main

import "github.com/tessro/kodictl/internal/cli"

func main() {
	cli.Execute()
}
