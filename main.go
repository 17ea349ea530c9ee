package main

import "github.com/jdlms/aws-tui/cmd"

func main() {
	cmd.Execute()
}
