package main

import (
	"os"

	"github.com/pion/videoframe/internal/cli"

	// Capture sources
	_ "github.com/pion/videoframe/pkg/driver/camera"
	_ "github.com/pion/videoframe/pkg/driver/screen"
	_ "github.com/pion/videoframe/pkg/driver/videotest"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
