package main

import "github.com/avargascr/linaje/cmd"

func main() {
	cmd.Execute()
}
