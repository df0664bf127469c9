// Command vecbench compares compression methods on sequences of float vectors.
package main

import "github.com/hupe1980/vecpress/internal/cli"

func main() {
	cli.Execute()
}
