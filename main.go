package main

import "github.com/sanix-darker/revu/cmd"

func main() {
	cmd.Execute()
}
