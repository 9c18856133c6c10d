package main

import "github.com/rail44/roster/cmd"

func main() {
	cmd.Execute()
}
