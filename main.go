package main

import "employee-sync/cmd"

func main() {
	cmd.Execute()
}
