package main

import "fiximg/cmd"

func main() {
	cmd.Execute()
}
