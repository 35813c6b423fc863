package main

import "unifeed/internal/cmd"

func main() {
	cmd.Run()
}
