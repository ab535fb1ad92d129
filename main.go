package main

import "github.com/jsphweid/karadex/cmd"

func main() {
	cmd.Execute()
}
