package main

import "github.com/aalvaropc/xferbot/internal/cli"

func main() {
	cli.Execute()
}
