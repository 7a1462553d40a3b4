// Package main is the entry point of the promptcheck server binary.
package main

import "promptcheck/cmd"

func main() {
	cmd.Execute()
}
