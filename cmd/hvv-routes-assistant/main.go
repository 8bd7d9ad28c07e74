package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"

	hvvroutes "github.com/Rishi8078/hvv-routes-assistant"
	"github.com/Rishi8078/hvv-routes-assistant/config"
	"github.com/Rishi8078/hvv-routes-assistant/gti"
)

func main() {
	hvvroutes.InitLogging()

	app := &cli.App{
		Name:        "hvv-routes-assistant",
		Description: "Polls the HVV Geofox API for configured routes and serves them as sensors",

		Commands: []*cli.Command{
			runCommand(),
			checkAuthCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the configuration file",
	}
}

func gtiOptions(cfg config.GTIConfig) []gti.Option {
	var opts []gti.Option
	if cfg.BaseURL != "" {
		opts = append(opts, gti.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutMS > 0 {
		opts = append(opts, gti.WithTimeout(time.Duration(cfg.TimeoutMS)*time.Millisecond))
	}
	return opts
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Set up all configured route instances and serve the HTTP API",
		Flags: []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			reg := hvvroutes.NewRegistry()
			opts := gtiOptions(cfg.GTI)

			ctx := context.Background()
			var instances []*hvvroutes.Instance
			for _, ic := range cfg.Instances {
				inst, err := hvvroutes.SetupInstanceWithRetry(ctx, ic, reg, opts...)
				if err != nil {
					return err
				}
				inst.Start()
				instances = append(instances, inst)
				log.Info().Str("instance", inst.ID).Str("entity", inst.Sensor.EntityID()).Msg("Instance ready")
			}

			srv := hvvroutes.NewServer(cfg.Server.Port, reg)
			srv.Start()
			srv.AwaitShutdown()

			for _, inst := range instances {
				inst.Shutdown(reg)
			}
			return nil
		},
	}
}

func checkAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-auth",
		Usage: "Validate the GTI credentials of every configured instance and exit",
		Flags: []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			opts := gtiOptions(cfg.GTI)
			failed := false
			for _, ic := range cfg.Instances {
				err := gti.ValidateCredentials(c.Context, ic.Username, ic.Password, opts...)
				switch {
				case err == nil:
					log.Info().Str("instance", ic.ID).Msg("Credentials valid")
				case errors.Is(err, gti.ErrInvalidAuth):
					log.Error().Str("instance", ic.ID).Msg("Credentials rejected")
					failed = true
				default:
					log.Error().Str("instance", ic.ID).Err(err).Msg("Could not reach the GTI API")
					failed = true
				}
			}
			if failed {
				return cli.Exit("credential check failed", 1)
			}
			return nil
		},
	}
}
