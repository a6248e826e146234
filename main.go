package main

import "odf-core/cmd"

func main() {
	cmd.Execute()
}
