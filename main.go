package main

import "github.com/josephlewis42/labsh/cmd"

func main() {
	cmd.Execute()
}
