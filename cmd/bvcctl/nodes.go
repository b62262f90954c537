// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/netascode/go-bvc"
)

type cmdNodes struct {
	common     *CmdControl
	FlagConfig bool
}

// Command returns definition for "bvcctl nodes"
func (c *cmdNodes) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List nodes and their connection state",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}
	cmd.Flags().BoolVar(&c.FlagConfig, "config", false, "List the config datastore instead")
	return cmd
}

// Run implements "bvcctl nodes"
func (c *cmdNodes) Run(cmd *cobra.Command, _ []string) error {
	ctrl, err := c.common.controller()
	if err != nil {
		return err
	}

	if c.FlagConfig {
		res, err := ctrl.AllNodesInConfig(cmd.Context())
		if err := outcome(res, err); err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout(), "Node")
		for _, n := range res.Value {
			t.Append([]string{n})
		}
		t.Render()
		return nil
	}

	res, err := ctrl.AllNodesConnStatus(cmd.Context())
	if err := outcome(res, err); err != nil {
		return err
	}
	t := newTable(cmd.OutOrStdout(), "Node", "Connected")
	for _, n := range res.Value {
		t.Append([]string{n.Node, strconv.FormatBool(n.Connected)})
	}
	t.Render()
	return nil
}

type cmdNode struct {
	common *CmdControl
}

// Command returns definition for "bvcctl node"
func (c *cmdNode) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Mount, unmount and check NETCONF nodes",
	}

	mount := &cmdNodeMount{common: c.common}
	cmd.AddCommand(mount.Command())

	unmount := &cmdNodeUnmount{common: c.common}
	cmd.AddCommand(unmount.Command())

	status := &cmdNodeStatus{common: c.common}
	cmd.AddCommand(status.Command())

	return cmd
}

type cmdNodeMount struct {
	common       *CmdControl
	FlagPort     int
	FlagUser     string
	FlagPassword string
	FlagTCPOnly  bool
}

// Command returns definition for "bvcctl node mount"
func (c *cmdNodeMount) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <name> <address>",
		Short: "Mount a NETCONF device on the controller",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
	cmd.Flags().IntVar(&c.FlagPort, "netconf-port", 830, "Device NETCONF port")
	cmd.Flags().StringVar(&c.FlagUser, "netconf-user", "vyatta", "Device username")
	cmd.Flags().StringVar(&c.FlagPassword, "netconf-password", "vyatta", "Device password")
	cmd.Flags().BoolVar(&c.FlagTCPOnly, "tcp-only", false, "Use NETCONF over plain TCP")
	return cmd
}

// Run implements "bvcctl node mount"
func (c *cmdNodeMount) Run(cmd *cobra.Command, args []string) error {
	node, err := bvc.NewNetconfNode(bvc.NetconfNodeConfig{
		Name:     args[0],
		Address:  args[1],
		Port:     c.FlagPort,
		Username: c.FlagUser,
		Password: c.FlagPassword,
		TCPOnly:  c.FlagTCPOnly,
	})
	if err != nil {
		return errors.Wrap(err, "invalid node")
	}

	ctrl, err := c.common.controller()
	if err != nil {
		return err
	}
	res, err := ctrl.AddNetconfNode(cmd.Context(), node)
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Node %q mounted\n", node.Name)
	return nil
}

type cmdNodeUnmount struct {
	common *CmdControl
}

// Command returns definition for "bvcctl node unmount"
func (c *cmdNodeUnmount) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "unmount <name>",
		Short: "Remove a NETCONF device from the controller",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl node unmount"
func (c *cmdNodeUnmount) Run(cmd *cobra.Command, args []string) error {
	ctrl, err := c.common.controller()
	if err != nil {
		return err
	}
	res, err := ctrl.DeleteNetconfNode(cmd.Context(), &bvc.NetconfNode{Name: args[0]})
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Node %q unmounted\n", args[0])
	return nil
}

type cmdNodeStatus struct {
	common *CmdControl
}

// Command returns definition for "bvcctl node status"
func (c *cmdNodeStatus) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "status <name>",
		Short: "Show whether a node is configured and connected",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl node status"
func (c *cmdNodeStatus) Run(cmd *cobra.Command, args []string) error {
	ctrl, err := c.common.controller()
	if err != nil {
		return err
	}

	conn, err := ctrl.CheckNodeConnStatus(cmd.Context(), args[0])
	if conn.Status != bvc.StatusNodeNotFound {
		if err := outcome(conn, err); err != nil {
			return err
		}
	}
	cfg, err := ctrl.CheckNodeConfigStatus(cmd.Context(), args[0])
	if err != nil {
		return errors.WithStack(err)
	}

	configured := cfg.Status == bvc.StatusNodeConfigured
	if !configured && (cfg.Response == nil || cfg.Response.StatusCode != http.StatusNotFound) {
		return errors.Wrap(cfg.Err(), "controller refused the request")
	}

	t := newTable(cmd.OutOrStdout(), "Node", "Configured", "Connection")
	t.Append([]string{args[0], strconv.FormatBool(configured), conn.Message()})
	t.Render()
	return nil
}
