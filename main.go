package main

import "github.com/duelbot/dexduels/cmd"

func main() {
	cmd.Execute()
}
