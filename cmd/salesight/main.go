// Command salesight computes business-analytics metrics from CSV snapshot
// tables and renders them as plain numeric tables.
package main

import (
	"github.com/salesight-labs/salesight/internal/cli"
)

func main() {
	cli.Execute()
}
