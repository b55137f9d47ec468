package main

import "github.com/moyu-x/image-mirror/cmd"

func main() {
	cmd.Execute()
}
