package main

import "github.com/oshokin/formula-updater/cmd/formula-updater/cmd"

func main() {
	cmd.Execute()
}
