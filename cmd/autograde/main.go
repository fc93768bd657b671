// Command autograde runs the scored tests for the machine learning
// project and reports provisional grades.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
