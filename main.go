package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/helmet/prefabs"
	"github.com/rs/zerolog/log"
)

func main() {
	spec, err := prefabs.LoadAppSpec()
	if err != nil {
		log.Fatal().Err(err).Msg("load app config")
	}
	closeLog := setupLogging(spec.Log)
	os.Exit(finish(run(spec), closeLog))
}

func run(spec *prefabs.AppSpec) error {
	camera, err := prefabs.LoadCameraSpec()
	if err != nil {
		return err
	}

	app := NewApp(spec, camera, os.DirFS(spec.AssetRoot))
	if spec.WatchAssets {
		if err := app.WatchAssets(spec.AssetRoot); err != nil {
			log.Warn().Err(err).Msg("asset hot reload disabled")
		}
	}

	if spec.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = app.RunHeadless(ctx)
		stop()
	} else {
		ebiten.SetWindowSize(spec.Window.Width, spec.Window.Height)
		ebiten.SetWindowTitle(spec.Window.Title)
		ebiten.SetTPS(spec.TickRate)
		err = ebiten.RunGame(NewGame(app, spec.Window.Width, spec.Window.Height))
	}
	if closeErr := app.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("shutdown")
	}
	return err
}

// finish logs a terminal error and closes the log file, then returns the
// process exit code.
func finish(err error, closeLog func() error) int {
	code := 0
	if err != nil {
		log.Error().Err(err).Msg("app terminated")
		code = 1
	}
	if closeErr := closeLog(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("close log file")
	}
	return code
}
