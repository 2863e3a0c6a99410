package main

import "github.com/xpensecontrol/xpense/cmd"

func main() {
	cmd.Execute()
}
