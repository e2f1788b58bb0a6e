// cmd/main.go
package main

import cmd "github.com/mwiater/polybench/cmd/polybench"

// main starts the polybench CLI application by delegating to the
// cobra root command defined in the polybench package.
func main() {
	cmd.Execute()
}
