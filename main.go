package main

import "pipeline-storage/cmd"

func main() {
	cmd.Execute()
}
