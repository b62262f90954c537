// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"fmt"
	"strings"

	"github.com/netascode/go-bvc"
)

// FlowEntryConfig describes a flow to program on a switch.
//
// ID and Priority are required. Nil pointers and empty strings are left
// out of the flow document.
type FlowEntryConfig struct {
	// TableID is the flow table, 0 by default
	TableID uint8

	// ID is the flow id in the config datastore
	ID string

	// Priority of the flow; required
	Priority *uint16

	// Name is an optional human-readable flow name
	Name string

	// IdleTimeout and HardTimeout in seconds, 0 disables them
	IdleTimeout uint16
	HardTimeout uint16

	Strict    bool
	InstallHW bool
	Barrier   bool

	Cookie     *uint64
	CookieMask *uint64

	// OutPort and OutGroup restrict delete commands
	OutPort  *uint32
	OutGroup *uint32

	// Flags is the OFPFF_* flag set, e.g. "SEND_FLOW_REM"
	Flags string

	BufferID *uint32
}

// FlowEntry is a flow built for the switch's config datastore
type FlowEntry struct {
	cfg          FlowEntryConfig
	match        *Match
	instructions []*Instruction
}

// NewFlowEntry validates cfg and returns an empty flow
func NewFlowEntry(cfg FlowEntryConfig) (*FlowEntry, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, bvc.Required("flow id")
	}
	if cfg.Priority == nil {
		return nil, bvc.Required("flow priority")
	}
	return &FlowEntry{cfg: cfg}, nil
}

// TableID returns the flow's table
func (f *FlowEntry) TableID() uint8 {
	return f.cfg.TableID
}

// ID returns the flow id
func (f *FlowEntry) ID() string {
	return f.cfg.ID
}

// Priority returns the flow priority
func (f *FlowEntry) Priority() uint16 {
	return *f.cfg.Priority
}

// AddInstruction appends an instruction
func (f *FlowEntry) AddInstruction(i *Instruction) error {
	if i == nil {
		return bvc.Required("instruction")
	}
	f.instructions = append(f.instructions, i)
	return nil
}

// SetMatch replaces the flow's match
func (f *FlowEntry) SetMatch(m *Match) {
	f.match = m
}

// Match returns the flow's match, nil if none was set
func (f *FlowEntry) Match() *Match {
	return f.match
}

// Instructions returns the instructions in insertion order
func (f *FlowEntry) Instructions() []*Instruction {
	return f.instructions
}

// JSON renders the flow as a flow-node-inventory:flow document.
//
// The instruction list is always present, possibly empty; match is "{}"
// when no match was set.
func (f *FlowEntry) JSON() (string, error) {
	match, err := f.match.JSON()
	if err != nil {
		return "", fmt.Errorf("flow %q: match: %w", f.cfg.ID, err)
	}

	instructions := make([]string, 0, len(f.instructions))
	for _, i := range f.instructions {
		s, err := i.JSON()
		if err != nil {
			return "", fmt.Errorf("flow %q: %w", f.cfg.ID, err)
		}
		instructions = append(instructions, s)
	}

	c := f.cfg
	b := bvc.Body{}.
		Set("barrier", c.Barrier).
		Set("hard-timeout", c.HardTimeout).
		Set("id", c.ID).
		Set("idle-timeout", c.IdleTimeout).
		Set("installHw", c.InstallHW)
	b = setOpt(b, "out-port", c.OutPort)
	b = setOpt(b, "out-group", c.OutGroup)
	b = b.SetIf(c.Flags != "", "flags", c.Flags)
	b = setOpt(b, "buffer-id", c.BufferID)
	b = b.SetRaw("match", match).
		Set("priority", *c.Priority).
		Set("strict", c.Strict).
		Set("table_id", c.TableID)
	b = setOpt(b, "cookie", c.Cookie)
	b = setOpt(b, "cookie_mask", c.CookieMask)
	b = b.SetIf(c.Name != "", "flow-name", c.Name).
		SetRawArray("instructions.instruction", instructions)

	inner, err := b.String()
	if err != nil {
		return "", err
	}
	return bvc.Body{}.SetRaw("flow-node-inventory:flow", inner).String()
}

// Instruction is an apply-actions instruction
type Instruction struct {
	// Order is the instruction's position in the flow
	Order int

	actions []Action
}

// NewInstruction returns an empty instruction at the given position
func NewInstruction(order int) *Instruction {
	return &Instruction{Order: order}
}

// AddApplyAction validates a and appends it to the instruction
func (i *Instruction) AddApplyAction(a Action) error {
	if _, err := encodeAction(a); err != nil {
		return err
	}
	i.actions = append(i.actions, a)
	return nil
}

// Actions returns the actions in insertion order
func (i *Instruction) Actions() []Action {
	return i.actions
}

// JSON renders the instruction as {"order":n,"apply-actions":{"action":[...]}}
func (i *Instruction) JSON() (string, error) {
	actions := make([]string, 0, len(i.actions))
	for _, a := range i.actions {
		s, err := actionJSON(a)
		if err != nil {
			return "", fmt.Errorf("instruction %d: %w", i.Order, err)
		}
		actions = append(actions, s)
	}
	return bvc.Body{}.
		Set("order", i.Order).
		SetRawArray("apply-actions.action", actions).
		String()
}
