package main

import (
	"medscribe/cmd/medscribe/cmd"
)

func main() {
	cmd.Execute()
}
