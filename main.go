package main

import "scribey-companion/cmd"

func main() {
	cmd.Execute()
}
