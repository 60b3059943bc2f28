package main

import "fakeout/cmd"

func main() {
	cmd.Execute()
}
