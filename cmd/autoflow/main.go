package main

import "github.com/autoflowhq/autoflow/cmd/autoflow/cmd"

func main() {
	cmd.Execute()
}
