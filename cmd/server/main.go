package main

import "github.com/gatherbase/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
