package main

import "mapwize-api/cmd"

func main() {
	cmd.Execute()
}
