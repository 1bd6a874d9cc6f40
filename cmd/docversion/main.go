package main

import "github.com/emrgen/docversion/cmd"

func main() {
	cmd.Execute()
}
