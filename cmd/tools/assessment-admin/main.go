// cmd/tools/assessment-admin/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finops-assessment/internal/common/logger"
)

func main() {
	log := logger.NewStructured("info", "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error("command failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
