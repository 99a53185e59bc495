package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/sqlnosqlbench"
)

func main() {
	// Ctrl-C stops the benchmark between trials
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sqlnosqlbench.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
