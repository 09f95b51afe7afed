package main

import "xorbatch/cmd"

func main() {
	cmd.Execute()
}
