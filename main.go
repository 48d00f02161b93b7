package main

import "github.com/indrora/minutar/cmd"

func main() {
	cmd.Execute()
}
