// Command seller-report computes seller performance reports from sales data.
package main

import (
	"fmt"
	"os"

	"github.com/retailops/seller-report/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
