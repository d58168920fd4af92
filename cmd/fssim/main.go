package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jenyangk/FS-Sim/pkg/api"
	"github.com/jenyangk/FS-Sim/pkg/diskstore"
	"github.com/jenyangk/FS-Sim/pkg/fs"
	"github.com/jenyangk/FS-Sim/pkg/logger"
	"github.com/jenyangk/FS-Sim/pkg/script"
	"github.com/urfave/cli/v2"
	pz "github.com/weberc2/httpeasy"
	"gopkg.in/yaml.v2"
)

func main() {
	app := cli.App{
		Name:        appName,
		Description: "a simulated 128 KiB file system driven by command scripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "the YAML configuration file",
				Value: DefaultConfigFile(),
			},
		},
		Commands: []*cli.Command{{
			Name:        "run",
			Aliases:     []string{"exec"},
			Usage:       "run SCRIPT",
			Description: "run a command script against the configured store",
			Action: withStore(func(
				c *Config,
				store diskstore.Store,
				ctx *cli.Context,
			) error {
				path := ctx.Args().First()
				if path == "" {
					return fmt.Errorf("missing required argument: SCRIPT")
				}
				return runScript(c, store, path)
			}),
		}, {
			Name:        "mkfs",
			Aliases:     []string{"create", "format"},
			Usage:       "mkfs NAME",
			Description: "create a freshly formatted disk",
			Action: withStore(func(
				c *Config,
				store diskstore.Store,
				ctx *cli.Context,
			) error {
				name, err := diskName(ctx)
				if err != nil {
					return err
				}
				return diskstore.Mkfs(store, name)
			}),
		}, {
			Name:        "check",
			Aliases:     []string{"fsck"},
			Usage:       "check NAME",
			Description: "check a disk's superblock for consistency",
			Action: withStore(func(
				c *Config,
				store diskstore.Store,
				ctx *cli.Context,
			) error {
				name, err := diskName(ctx)
				if err != nil {
					return err
				}
				if err := checkDisk(store, name); err != nil {
					return err
				}
				fmt.Printf("%s: ok\n", name)
				return nil
			}),
		}, {
			Name:        "inspect",
			Usage:       "inspect NAME",
			Description: "print a disk's decoded superblock as YAML",
			Action: withStore(func(
				c *Config,
				store diskstore.Store,
				ctx *cli.Context,
			) error {
				name, err := diskName(ctx)
				if err != nil {
					return err
				}
				inspection, err := inspect(store, name)
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(inspection)
				if err != nil {
					return fmt.Errorf("marshaling inspection to YAML: %w", err)
				}
				if _, err := os.Stdout.Write(data); err != nil {
					return fmt.Errorf("writing YAML to stdout: %w", err)
				}
				return nil
			}),
		}, {
			Name:        "serve",
			Description: "serve the file system session over HTTP",
			Action: withStore(func(
				c *Config,
				store diskstore.Store,
				ctx *cli.Context,
			) error {
				l := c.Logger()
				session := fs.NewSession(store, l)
				defer session.Close()
				server := api.Server{
					Session: session,
					Context: logger.Set(context.Background(), l),
				}
				l.Info("listening", "addr", c.Addr, "store", c.Store)
				return http.ListenAndServe(
					c.Addr,
					pz.Register(pz.JSONLog(os.Stderr), server.Routes()...),
				)
			}),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runScript(c *Config, store diskstore.Store, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer file.Close()

	l := c.Logger()
	session := fs.NewSession(store, l)
	defer session.Close()
	runner := script.Runner{
		Session: session,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Name:    path,
	}
	return runner.Run(logger.Set(context.Background(), l), file)
}

func diskName(ctx *cli.Context) (string, error) {
	name := ctx.Args().First()
	if name == "" {
		return "", fmt.Errorf("missing required argument: NAME")
	}
	return name, nil
}

func withStore(
	f func(*Config, diskstore.Store, *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := LoadConfig(ctx.String("config"))
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		store, closer, err := c.OpenStore()
		if err != nil {
			return fmt.Errorf("opening `%s` store: %w", c.Store, err)
		}
		defer closer()
		return f(c, store, ctx)
	}
}
