// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/netascode/go-bvc/vrouter"
)

type cmdFirewall struct {
	common *CmdControl
}

// Command returns definition for "bvcctl firewall"
func (c *cmdFirewall) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firewall",
		Short: "Manage firewall instances of a mounted vRouter",
	}

	list := &cmdFirewallList{common: c.common}
	cmd.AddCommand(list.Command())

	create := &cmdFirewallCreate{common: c.common}
	cmd.AddCommand(create.Command())

	remove := &cmdFirewallDelete{common: c.common}
	cmd.AddCommand(remove.Command())

	bind := &cmdFirewallBind{common: c.common}
	cmd.AddCommand(bind.Command())

	unbind := &cmdFirewallUnbind{common: c.common}
	cmd.AddCommand(unbind.Command())

	return cmd
}

// router returns a handle to the mounted router
func (c *CmdControl) router(name string) (*vrouter.VRouter5600, error) {
	ctrl, err := c.controller()
	if err != nil {
		return nil, err
	}
	return vrouter.Mounted(ctrl, name)
}

// parseRule reads "<number>,<action>[,<source>[,<icmp-type>]]"
func parseRule(s string) (*vrouter.Rule, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 || len(fields) > 4 {
		return nil, errors.Errorf("rule %q: want <number>,<action>[,<source>[,<icmp-type>]]", s)
	}
	number, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q: invalid number", s)
	}
	fields = append(fields, "", "")
	rule, err := vrouter.NewRule(number,
		strings.TrimSpace(fields[1]),
		strings.TrimSpace(fields[2]),
		strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q", s)
	}
	return rule, nil
}

type cmdFirewallList struct {
	common *CmdControl
}

// Command returns definition for "bvcctl firewall list"
func (c *cmdFirewallList) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "list <router>",
		Short: "List firewall instances and their rules",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl firewall list"
func (c *cmdFirewallList) Run(cmd *cobra.Command, args []string) error {
	r, err := c.common.router(args[0])
	if err != nil {
		return err
	}
	res, err := r.FirewallsCfg(cmd.Context())
	if err := outcome(res, err); err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "Firewall", "Rule", "Action", "Source", "ICMP type")
	for _, fw := range res.Value.Get("vyatta-security-firewall:firewall.name").Array() {
		name := fw.Get("tagnode").String()
		for _, rule := range fw.Get("rule").Array() {
			t.Append([]string{
				name,
				rule.Get("tagnode").String(),
				rule.Get("action").String(),
				rule.Get("source.address").String(),
				rule.Get("icmp.type-name").String(),
			})
		}
	}
	t.Render()
	return nil
}

type cmdFirewallCreate struct {
	common    *CmdControl
	FlagRules []string
}

// Command returns definition for "bvcctl firewall create"
func (c *cmdFirewallCreate) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <router> <name>",
		Short: "Create a firewall instance",
		Example: `  bvcctl firewall create vRouter FW-ACCEPT-SRC \
      --rule 30,accept,172.22.17.108 --rule 40,drop,,ping`,
		Args: cobra.ExactArgs(2),
		RunE: c.Run,
	}
	cmd.Flags().StringArrayVarP(&c.FlagRules, "rule", "r", nil, "Rule as <number>,<action>[,<source>[,<icmp-type>]]")
	return cmd
}

// Run implements "bvcctl firewall create"
func (c *cmdFirewallCreate) Run(cmd *cobra.Command, args []string) error {
	rules, err := vrouter.NewRules(args[1])
	if err != nil {
		return errors.WithStack(err)
	}
	for _, s := range c.FlagRules {
		rule, err := parseRule(s)
		if err != nil {
			return err
		}
		if err := rules.AddRule(rule); err != nil {
			return errors.WithStack(err)
		}
	}
	fw, err := vrouter.NewFirewall(rules)
	if err != nil {
		return errors.WithStack(err)
	}

	r, err := c.common.router(args[0])
	if err != nil {
		return err
	}
	res, err := r.CreateFirewallInstance(cmd.Context(), fw)
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Firewall %q created with %d rules\n", fw.Name(), len(rules.Rules))
	return nil
}

type cmdFirewallDelete struct {
	common *CmdControl
}

// Command returns definition for "bvcctl firewall delete"
func (c *cmdFirewallDelete) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <router> <name>",
		Short: "Delete a firewall instance",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl firewall delete"
func (c *cmdFirewallDelete) Run(cmd *cobra.Command, args []string) error {
	r, err := c.common.router(args[0])
	if err != nil {
		return err
	}
	res, err := r.DeleteFirewallInstance(cmd.Context(), args[1])
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Firewall %q deleted\n", args[1])
	return nil
}

type cmdFirewallBind struct {
	common  *CmdControl
	FlagIn  string
	FlagOut string
}

// Command returns definition for "bvcctl firewall bind"
func (c *cmdFirewallBind) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind <router> <interface>",
		Short: "Apply firewall instances to a dataplane interface",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
	cmd.Flags().StringVar(&c.FlagIn, "in", "", "Instance for inbound traffic")
	cmd.Flags().StringVar(&c.FlagOut, "out", "", "Instance for outbound traffic")
	return cmd
}

// Run implements "bvcctl firewall bind"
func (c *cmdFirewallBind) Run(cmd *cobra.Command, args []string) error {
	r, err := c.common.router(args[0])
	if err != nil {
		return err
	}
	res, err := r.SetDataplaneInterfaceFirewall(cmd.Context(), args[1], c.FlagIn, c.FlagOut)
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Firewall bound to %q\n", args[1])
	return nil
}

type cmdFirewallUnbind struct {
	common *CmdControl
}

// Command returns definition for "bvcctl firewall unbind"
func (c *cmdFirewallUnbind) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "unbind <router> <interface>",
		Short: "Remove all firewall instances from a dataplane interface",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
}

// Run implements "bvcctl firewall unbind"
func (c *cmdFirewallUnbind) Run(cmd *cobra.Command, args []string) error {
	r, err := c.common.router(args[0])
	if err != nil {
		return err
	}
	res, err := r.DeleteDataplaneInterfaceFirewall(cmd.Context(), args[1])
	if err := outcome(res, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Firewall removed from %q\n", args[1])
	return nil
}
