// Command personjob converts a "name,age" CSV file into a JSON array of
// people with lowercased names.
//
// Settings come from cmd/personjob/config.yml (or ./config.yml, or --config)
// and PERSONJOB_* environment variables, for example PERSONJOB_INPUT_PATH or
// PERSONJOB_STORAGE_PROVIDER=s3.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "personjob: %v\n", err)
		os.Exit(exitCode(err))
	}
}
