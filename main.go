package main

import "github.com/athlog/athlog-mcp/internal/cmd"

func main() {
	cmd.Execute()
}
