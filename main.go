// The main package for the casescan executable.
package main

import (
	"github.com/althingi-data/umbodsmadur-crawler/cmd"
)

func main() {
	cmd.Execute()
}
