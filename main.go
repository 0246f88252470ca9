package main

import "github.com/bmatsuo/minilisp/cmd"

func main() {
	cmd.Execute()
}
