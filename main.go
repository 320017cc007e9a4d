package main

import "github.com/user/appknox-mcp/cmd"

func main() {
	cmd.Execute()
}
