package main

import "github.com/theirongolddev/finbot/cmd"

func main() {
	cmd.Execute()
}
