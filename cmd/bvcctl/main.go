// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command bvcctl inspects and configures devices managed by an OpenDaylight
// based controller over RESTCONF.
//
// Connection settings come from flags, falling back to the BVC_HOST,
// BVC_PORT, BVC_USERNAME and BVC_PASSWORD environment variables.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netascode/go-bvc"
)

// CmdControl holds the flags shared by all commands
type CmdControl struct {
	FlagHost     string
	FlagPort     int
	FlagUser     string
	FlagPassword string
	FlagTimeout  time.Duration
	FlagHTTPS    bool
	FlagInsecure bool
	FlagDebug    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(&CmdControl{})
	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newApp(common *CmdControl) *cobra.Command {
	app := &cobra.Command{
		Use:               "bvcctl",
		Short:             "Inspect and configure controller managed devices",
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	flags := app.PersistentFlags()
	flags.StringVar(&common.FlagHost, "host", envOr("BVC_HOST", "127.0.0.1"), "Controller address")
	flags.IntVar(&common.FlagPort, "port", envInt("BVC_PORT", bvc.DefaultPort), "Controller RESTCONF port")
	flags.StringVarP(&common.FlagUser, "user", "u", envOr("BVC_USERNAME", "admin"), "Controller username")
	flags.StringVarP(&common.FlagPassword, "password", "p", envOr("BVC_PASSWORD", "admin"), "Controller password")
	flags.DurationVar(&common.FlagTimeout, "timeout", bvc.DefaultTimeout, "Request timeout")
	flags.BoolVar(&common.FlagHTTPS, "https", false, "Use HTTPS")
	flags.BoolVar(&common.FlagInsecure, "insecure", false, "Skip TLS certificate verification")
	flags.BoolVarP(&common.FlagDebug, "debug", "d", false, "Log every request and response")

	var cmdNodes = cmdNodes{common: common}
	app.AddCommand(cmdNodes.Command())

	var cmdNode = cmdNode{common: common}
	app.AddCommand(cmdNode.Command())

	var cmdSwitch = cmdSwitch{common: common}
	app.AddCommand(cmdSwitch.Command())

	var cmdFirewall = cmdFirewall{common: common}
	app.AddCommand(cmdFirewall.Command())

	app.InitDefaultHelpCmd()
	return app
}

// controller connects to the controller named by the common flags
func (c *CmdControl) controller() (*bvc.Controller, error) {
	ctrl, err := bvc.NewController(c.FlagHost,
		bvc.Port(c.FlagPort),
		bvc.Username(c.FlagUser),
		bvc.Password(c.FlagPassword),
		bvc.Timeout(c.FlagTimeout),
		bvc.HTTPS(c.FlagHTTPS),
		bvc.InsecureSkipVerify(c.FlagInsecure),
		bvc.WithLogger(c.logger()))
	if err != nil {
		return nil, errors.Wrap(err, "invalid controller settings")
	}
	return ctrl, nil
}

func (c *CmdControl) logger() bvc.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	if c.FlagDebug {
		l.SetLevel(logrus.DebugLevel)
	}
	return bvc.NewLogrusLogger(l)
}

// outcome turns a call result into a command error
func outcome[T any](res bvc.Res[T], err error) error {
	if err != nil {
		return errors.WithStack(err)
	}
	if e := res.Err(); e != nil {
		return errors.Wrap(e, "controller refused the request")
	}
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
