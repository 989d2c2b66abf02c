// Command sqltrail traces table lineage through the SQL statements
// embedded in scripts.
package main

import (
	"os"

	"github.com/leapstack-labs/sqltrail/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
