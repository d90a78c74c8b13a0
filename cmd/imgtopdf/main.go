package main

import "github.com/kpauljoseph/convtools/internal/cli"

func main() {
	cli.Execute(cli.NewImageToPDFCommand())
}
