package main

import "github.com/smdiallo/presence-management/cmd"

func main() {
	cmd.Execute()
}
