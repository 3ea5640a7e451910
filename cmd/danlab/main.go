package main

import "github.com/CChelak/dan-lab/internal/cli"

func main() {
	cli.Execute()
}
