// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package vrouter

import (
	"fmt"
	"strings"

	"github.com/netascode/go-bvc"
)

// Rule is one numbered rule of a firewall instance
type Rule struct {
	// Number orders the rule inside its instance; required
	Number int

	// Action is "accept", "drop" or "reject"; required
	Action string

	// SourceAddress restricts the rule to a source prefix
	SourceAddress string

	// ICMPTypeName restricts the rule to one ICMP type, e.g. "ping".
	// Setting it makes the rule's protocol icmp.
	ICMPTypeName string
}

// NewRule validates and returns a rule
func NewRule(number int, action, sourceAddress, icmpTypeName string) (*Rule, error) {
	r := &Rule{Number: number, Action: action, SourceAddress: sourceAddress, ICMPTypeName: icmpTypeName}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rule) validate() error {
	if r.Number == 0 {
		return bvc.Required("rule number")
	}
	if strings.TrimSpace(r.Action) == "" {
		return bvc.Required("rule action")
	}
	return nil
}

func (r *Rule) body() bvc.Body {
	b := bvc.Body{}.
		Set("action", r.Action).
		SetIf(r.SourceAddress != "", "source.address", r.SourceAddress).
		Set("tagnode", r.Number)
	if r.ICMPTypeName != "" {
		b = b.Set("protocol", "icmp").
			Set("icmp.type-name", r.ICMPTypeName)
	}
	return b
}

// Rules is a named firewall instance with its rules
type Rules struct {
	Name  string
	Rules []*Rule
}

// NewRules returns an empty firewall instance
func NewRules(name string) (*Rules, error) {
	if strings.TrimSpace(name) == "" {
		return nil, bvc.Required("firewall name")
	}
	return &Rules{Name: name}, nil
}

// AddRule validates r and appends it
func (rs *Rules) AddRule(r *Rule) error {
	if r == nil {
		return bvc.Required("rule")
	}
	if err := r.validate(); err != nil {
		return err
	}
	rs.Rules = append(rs.Rules, r)
	return nil
}

func (rs *Rules) body() (bvc.Body, error) {
	rules := make([]string, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		s, err := r.body().String()
		if err != nil {
			return bvc.Body{}, fmt.Errorf("rule %d: %w", r.Number, err)
		}
		rules = append(rules, s)
	}
	return bvc.Body{}.
		SetRawArray("rule", rules).
		Set("tagnode", rs.Name), nil
}

// Firewall is a firewall instance ready to be created on a router
type Firewall struct {
	Rules *Rules
}

// NewFirewall wraps rules into a firewall document
func NewFirewall(rules *Rules) (*Firewall, error) {
	if rules == nil {
		return nil, bvc.Required("firewall rules")
	}
	return &Firewall{Rules: rules}, nil
}

// Name returns the firewall instance name
func (f *Firewall) Name() string {
	return f.Rules.Name
}

// JSON renders the vyatta-security:security document that creates the
// instance.
func (f *Firewall) JSON() (string, error) {
	inner, err := f.Rules.body()
	if err != nil {
		return "", fmt.Errorf("firewall %q: %w", f.Rules.Name, err)
	}
	s, err := inner.String()
	if err != nil {
		return "", fmt.Errorf("firewall %q: %w", f.Rules.Name, err)
	}
	return bvc.Body{}.
		SetRawArray("vyatta-security:security.vyatta-security-firewall:firewall.name", []string{s}).
		String()
}

// DataplaneFirewall binds firewall instances to a dataplane interface
type DataplaneFirewall struct {
	// Interface is the dataplane interface, e.g. "dp0p1p7"
	Interface string

	// In and Out name the instances applied to inbound and outbound traffic.
	// At least one is required.
	In  string
	Out string
}

// NewDataplaneFirewall validates and returns the binding
func NewDataplaneFirewall(ifName, in, out string) (*DataplaneFirewall, error) {
	if strings.TrimSpace(ifName) == "" {
		return nil, bvc.Required("interface name")
	}
	if in == "" && out == "" {
		return nil, &bvc.ValidationError{Field: "firewall name", Reason: "is required for at least one direction (in, out)"}
	}
	return &DataplaneFirewall{Interface: ifName, In: in, Out: out}, nil
}

// JSON renders the vyatta-interfaces-dataplane:dataplane document. A
// direction without an instance is left out.
func (d *DataplaneFirewall) JSON() (string, error) {
	b := bvc.Body{}.Set(dataplaneKey+".tagnode", d.Interface)
	if d.In != "" {
		b = b.Set(dataplaneKey+"."+firewallKey+".in", []string{d.In})
	}
	if d.Out != "" {
		b = b.Set(dataplaneKey+"."+firewallKey+".out", []string{d.Out})
	}
	return b.String()
}
