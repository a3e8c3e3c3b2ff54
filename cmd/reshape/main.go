// Command reshape converts a JSON array of objects to TXT, JSON or CSV from
// the command line, optionally applying a saved profile.
//
//	reshape data.json -f csv --select id,name -o people
//	cat data.json | reshape -p setup.yaml
//	reshape data.json -o out.txt --watch
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "reshape:", err)
		os.Exit(1)
	}
}
