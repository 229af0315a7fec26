// Command llamactl is a read-only inspection tool for a persisted
// llama-csr database directory: it opens the catalog and frozen levels a
// Graph.Save call wrote and prints what is there, without ever mutating
// the directory it points at.
package main

import "os"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
