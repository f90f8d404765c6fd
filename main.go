package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shandysiswandi/gatekeep/internal/app"
	"github.com/spf13/pflag"
)

func main() {
	configDir := pflag.String("config-dir", "", "directory holding config.yaml and its profile files")
	sets := pflag.StringArray("set", nil, "override a config key, key=value (repeatable)")
	pflag.Parse()

	overrides, err := app.ParseOverrides(*sets)
	if err != nil {
		slog.Error("failed to parse flags", "error", err)
		os.Exit(2)
	}

	application := app.New(app.Options{ConfigDir: *configDir, Overrides: overrides}) // Initialize the application
	wait := application.Start()                                                      // Start the application and wait for the termination signal
	<-wait                                                                           // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
