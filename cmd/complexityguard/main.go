// Command complexityguard is the entry point for the static code-quality
// analyzer CLI; it delegates all flag parsing and execution to cmd.Execute.
package main

import "github.com/ingo-eichhorst/complexityguard/cmd"

func main() {
	cmd.Execute()
}
