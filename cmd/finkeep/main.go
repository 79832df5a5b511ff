// Command finkeep is the personal-finance record keeper CLI.
package main

import "github.com/finkeep/finkeep/internal/cli"

func main() {
	cli.Execute()
}
