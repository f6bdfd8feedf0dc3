package main

import "github.com/labelkit/zplview/cmd/zplview/cmd"

func main() {
	cmd.Execute()
}
