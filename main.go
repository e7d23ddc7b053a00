package main

import "github.com/khanhnv2901/ssltest/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
