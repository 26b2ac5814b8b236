package main

import "gopherai-interview/cmd/interviewctl/commands"

func main() {
	commands.Execute()
}
