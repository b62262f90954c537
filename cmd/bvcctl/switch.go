// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netascode/go-bvc/openflow"
)

type cmdSwitch struct {
	common *CmdControl
}

// Command returns definition for "bvcctl switch"
func (c *cmdSwitch) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Inspect OpenFlow switches and their flows",
	}

	list := &cmdSwitchList{common: c.common}
	cmd.AddCommand(list.Command())

	info := &cmdSwitchInfo{common: c.common}
	cmd.AddCommand(info.Command())

	ports := &cmdSwitchPorts{common: c.common}
	cmd.AddCommand(ports.Command())

	flows := &cmdSwitchFlows{common: c.common}
	cmd.AddCommand(flows.Command())

	deleteFlow := &cmdSwitchDeleteFlow{common: c.common}
	cmd.AddCommand(deleteFlow.Command())

	return cmd
}

// ofSwitch returns a handle to the named switch
func (c *CmdControl) ofSwitch(name string) (*openflow.OFSwitch, error) {
	ctrl, err := c.controller()
	if err != nil {
		return nil, err
	}
	return openflow.NewOFSwitch(ctrl, name, "")
}

type cmdSwitchList struct {
	common *CmdControl
}

// Command returns definition for "bvcctl switch list"
func (c *cmdSwitchList) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected OpenFlow switches",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}
}

// Run implements "bvcctl switch list"
func (c *cmdSwitchList) Run(cmd *cobra.Command, _ []string) error {
	ctrl, err := c.common.controller()
	if err != nil {
		return err
	}
	res, err := ctrl.OpenflowNodesOperationalList(cmd.Context())
	if err := outcome(res, err); err != nil {
		return err
	}
	for _, name := range res.Value {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

type cmdSwitchInfo struct {
	common *CmdControl
}

// Command returns definition for "bvcctl switch info"
func (c *cmdSwitchInfo) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "info <switch>",
		Short: "Show switch description and features",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl switch info"
func (c *cmdSwitchInfo) Run(cmd *cobra.Command, args []string) error {
	sw, err := c.common.ofSwitch(args[0])
	if err != nil {
		return err
	}

	info, err := sw.SwitchInfo(cmd.Context())
	if err := outcome(info, err); err != nil {
		return err
	}
	features, err := sw.FeaturesInfo(cmd.Context())
	if err := outcome(features, err); err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "Property", "Value")
	t.Append([]string{"Manufacturer", info.Value.Manufacturer})
	t.Append([]string{"Hardware", info.Value.Hardware})
	t.Append([]string{"Software", info.Value.Software})
	t.Append([]string{"Serial number", info.Value.SerialNumber})
	t.Append([]string{"Description", info.Value.Description})
	t.Append([]string{"Max tables", strconv.FormatInt(features.Value.MaxTables, 10)})
	t.Append([]string{"Max buffers", strconv.FormatInt(features.Value.MaxBuffers, 10)})
	t.Append([]string{"Capabilities", strings.Join(features.Value.Capabilities, ", ")})
	t.Render()
	return nil
}

type cmdSwitchPorts struct {
	common *CmdControl
}

// Command returns definition for "bvcctl switch ports"
func (c *cmdSwitchPorts) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "ports <switch>",
		Short: "List switch ports",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl switch ports"
func (c *cmdSwitchPorts) Run(cmd *cobra.Command, args []string) error {
	sw, err := c.common.ofSwitch(args[0])
	if err != nil {
		return err
	}
	res, err := sw.PortsBriefInfo(cmd.Context())
	if err := outcome(res, err); err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "Port", "Name", "MAC address", "Current feature")
	for _, p := range res.Value {
		t.Append([]string{p.Number, p.Name, p.MACAddress, p.CurrentFeature})
	}
	t.Render()
	return nil
}

type cmdSwitchFlows struct {
	common     *CmdControl
	FlagTable  uint8
	FlagConfig bool
	FlagSort   bool
}

// Command returns definition for "bvcctl switch flows"
func (c *cmdSwitchFlows) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flows <switch>",
		Short: "Dump the flows of a table like ovs-ofctl dump-flows",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
	cmd.Flags().Uint8VarP(&c.FlagTable, "table", "t", 0, "Flow table")
	cmd.Flags().BoolVar(&c.FlagConfig, "config", false, "Dump configured instead of operational flows")
	cmd.Flags().BoolVar(&c.FlagSort, "sort", true, "Sort flows by priority")
	return cmd
}

// Run implements "bvcctl switch flows"
func (c *cmdSwitchFlows) Run(cmd *cobra.Command, args []string) error {
	sw, err := c.common.ofSwitch(args[0])
	if err != nil {
		return err
	}

	fetch := sw.OperationalFlowsOVS
	if c.FlagConfig {
		fetch = sw.ConfiguredFlowsOVS
	}
	res, err := fetch(cmd.Context(), c.FlagTable, c.FlagSort)
	if err := outcome(res, err); err != nil {
		return err
	}
	for _, f := range res.Value {
		fmt.Fprintln(cmd.OutOrStdout(), f.String())
	}
	return nil
}

type cmdSwitchDeleteFlow struct {
	common    *CmdControl
	FlagTable uint8
}

// Command returns definition for "bvcctl switch delete-flow"
func (c *cmdSwitchDeleteFlow) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-flow <switch> <flow-id>",
		Short: "Remove a flow from the config datastore",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
	cmd.Flags().Uint8VarP(&c.FlagTable, "table", "t", 0, "Flow table")
	return cmd
}

// Run implements "bvcctl switch delete-flow"
func (c *cmdSwitchDeleteFlow) Run(cmd *cobra.Command, args []string) error {
	sw, err := c.common.ofSwitch(args[0])
	if err != nil {
		return err
	}
	res, err := sw.DeleteFlow(cmd.Context(), c.FlagTable, args[1])
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Flow %q removed from table %d\n", args[1], c.FlagTable)
	return nil
}
