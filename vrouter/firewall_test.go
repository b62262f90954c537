// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package vrouter

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/netascode/go-bvc"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		name   string
		number int
		action string
		field  string
	}{
		{"valid", 30, "accept", ""},
		{"missing number", 0, "accept", "rule number"},
		{"missing action", 30, "", "rule action"},
		{"blank action", 30, "  ", "rule action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRule(tt.number, tt.action, "", "")
			if tt.field == "" {
				if err != nil || r == nil {
					t.Fatalf("NewRule() = %v, %v", r, err)
				}
				return
			}
			var verr *bvc.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("NewRule() error = %v, want ValidationError for %q", err, tt.field)
			}
		})
	}
}

func TestRuleBody(t *testing.T) {
	r, err := NewRule(40, "drop", "172.22.17.107", "ping")
	if err != nil {
		t.Fatalf("NewRule() error = %v", err)
	}
	s, err := r.body().String()
	if err != nil {
		t.Fatalf("body() error = %v", err)
	}
	for path, want := range map[string]string{
		"action":         "drop",
		"source.address": "172.22.17.107",
		"tagnode":        "40",
		"protocol":       "icmp",
		"icmp.type-name": "ping",
	} {
		if got := gjson.Get(s, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}

	plain, _ := NewRule(10, "accept", "", "")
	s, _ = plain.body().String()
	for _, path := range []string{"source", "protocol", "icmp"} {
		if gjson.Get(s, path).Exists() {
			t.Errorf("%s present in %s", path, s)
		}
	}
}

func TestRules(t *testing.T) {
	if _, err := NewRules(""); err == nil {
		t.Error("NewRules(\"\") error = nil, want error")
	}

	rules, err := NewRules("FW-ACCEPT-SRC-172_22_17_108")
	if err != nil {
		t.Fatalf("NewRules() error = %v", err)
	}
	if err := rules.AddRule(nil); err == nil {
		t.Error("AddRule(nil) error = nil, want error")
	}
	if err := rules.AddRule(&Rule{Number: 0, Action: "accept"}); err == nil {
		t.Error("AddRule() with rule number 0 error = nil, want error")
	}
	if err := rules.AddRule(&Rule{Number: 33, Action: "accept", SourceAddress: "172.22.17.108"}); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if len(rules.Rules) != 1 {
		t.Errorf("len(Rules) = %d, want 1", len(rules.Rules))
	}
}

func TestFirewallJSON(t *testing.T) {
	rules, _ := NewRules("FW1")
	r1, _ := NewRule(30, "accept", "172.22.17.108", "")
	r2, _ := NewRule(40, "drop", "", "ping")
	if err := rules.AddRule(r1); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if err := rules.AddRule(r2); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	fw, err := NewFirewall(rules)
	if err != nil {
		t.Fatalf("NewFirewall() error = %v", err)
	}
	if fw.Name() != "FW1" {
		t.Errorf("Name() = %q, want %q", fw.Name(), "FW1")
	}

	s, err := fw.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	names := gjson.Get(s, "vyatta-security:security.vyatta-security-firewall:firewall.name")
	if !names.IsArray() || len(names.Array()) != 1 {
		t.Fatalf("name = %s, want a one-element list", names.Raw)
	}
	inst := names.Array()[0]
	if got := inst.Get("tagnode").String(); got != "FW1" {
		t.Errorf("tagnode = %q, want %q", got, "FW1")
	}
	if got := inst.Get("rule.#").Int(); got != 2 {
		t.Errorf("rule count = %d, want 2", got)
	}
	if got := inst.Get("rule.0.source.address").String(); got != "172.22.17.108" {
		t.Errorf("rule 30 source = %q, want %q", got, "172.22.17.108")
	}
	if got := inst.Get("rule.1.icmp.type-name").String(); got != "ping" {
		t.Errorf("rule 40 icmp type = %q, want %q", got, "ping")
	}

	if _, err := NewFirewall(nil); err == nil {
		t.Error("NewFirewall(nil) error = nil, want error")
	}
}

func TestFirewallJSON_NoRules(t *testing.T) {
	rules, _ := NewRules("EMPTY")
	fw, _ := NewFirewall(rules)
	s, err := fw.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if got := gjson.Get(s, "vyatta-security:security.vyatta-security-firewall:firewall.name.0.rule").Raw; got != "[]" {
		t.Errorf("rule = %s, want []", got)
	}
}

func TestNewDataplaneFirewall(t *testing.T) {
	tests := []struct {
		name    string
		ifName  string
		in, out string
		field   string
	}{
		{name: "in only", ifName: "dp0p1p7", in: "FW1"},
		{name: "out only", ifName: "dp0p1p7", out: "FW2"},
		{name: "both", ifName: "dp0p1p7", in: "FW1", out: "FW2"},
		{name: "no interface", in: "FW1", field: "interface name"},
		{name: "no direction", ifName: "dp0p1p7", field: "firewall name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDataplaneFirewall(tt.ifName, tt.in, tt.out)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("NewDataplaneFirewall() error = %v", err)
				}
				if d.Interface != tt.ifName {
					t.Errorf("Interface = %q, want %q", d.Interface, tt.ifName)
				}
				return
			}
			var verr *bvc.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("NewDataplaneFirewall() error = %v, want ValidationError for %q", err, tt.field)
			}
		})
	}
}

func TestDataplaneFirewallJSON(t *testing.T) {
	const root = "vyatta-interfaces-dataplane:dataplane"
	const fw = root + ".vyatta-security-firewall:firewall"

	d, _ := NewDataplaneFirewall("dp0p1p7", "FW1", "")
	s, err := d.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if got := gjson.Get(s, root+".tagnode").String(); got != "dp0p1p7" {
		t.Errorf("tagnode = %q, want %q", got, "dp0p1p7")
	}
	if got := gjson.Get(s, fw+".in").Raw; got != `["FW1"]` {
		t.Errorf("in = %s, want [\"FW1\"]", got)
	}
	if gjson.Get(s, fw+".out").Exists() {
		t.Errorf("out present in %s", s)
	}

	d, _ = NewDataplaneFirewall("dp0p1p7", "FW1", "FW2")
	s, _ = d.JSON()
	if got := gjson.Get(s, fw+".out").Raw; got != `["FW2"]` {
		t.Errorf("out = %s, want [\"FW2\"]", got)
	}
}
