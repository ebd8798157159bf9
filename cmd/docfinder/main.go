// Command docfinder serves and queries a lazily hydrated documentation
// search index seeded from curated link lists.
package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
