package main

import "netwatch/cmd"

func main() {
	cmd.Execute()
}
