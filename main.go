package main

import cmd "github.com/inference-gateway/triage/cmd"

func main() {
	cmd.Execute()
}
