package main

import "devcleaner/cmd"

func main() {
	cmd.Execute()
}
