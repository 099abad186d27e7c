package main

import "github.com/MeKo-Tech/tempo/cmd/tempo/cmd"

func main() {
	cmd.Execute()
}
