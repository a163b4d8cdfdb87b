package main

import "github.com/complyhq/complybot/cmd"

func main() {
	cmd.Execute()
}
