package main

import "github.com/JoakimHagen/MCP23X17/cmd/xpander/cmd"

func main() {
	cmd.Execute()
}
