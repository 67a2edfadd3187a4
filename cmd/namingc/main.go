// Command namingc prints and generates the database names of YAML model
// descriptions under a naming convention.
package main

import "github.com/syssam/naming/internal/cli"

func main() {
	cli.Execute()
}
