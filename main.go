package main

import "github.com/123ibadullah/MusicWebApplication/cmd"

func main() {
	cmd.Execute()
}
