package main

import "github.com/tessro/tokyobox/internal/cli"

func main() {
	cli.Execute()
}
