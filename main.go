package main

import "github.com/khanhnv2901/relay-diag/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
