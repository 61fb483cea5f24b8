package main

import "github.com/gatehouse-auth/gatehouse/cmd"

func main() {
	cmd.Execute()
}
