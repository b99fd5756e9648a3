package main

import "github.com/melkeydev/mcp-odata/cmd"

func main() {
	cmd.Execute()
}
