// Command geost propagates and solves geometric placement models described
// in JSON files.
//
// Usage:
//
//	geost propagate model.json
//	geost fix --mode delta model.json
//	geost batch --workers 4 a.json b.json c.json
//	geost demo
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
