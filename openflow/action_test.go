// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/netascode/go-bvc"
)

func TestActionJSON(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		key    string
		fields map[string]string
	}{
		{
			name:   "output",
			action: &OutputAction{Order: 0, Port: "5"},
			key:    "output-action",
			fields: map[string]string{"output-node-connector": "5"},
		},
		{
			name:   "output to controller",
			action: &OutputAction{Order: 1, Port: "CONTROLLER", MaxLength: Ptr[uint16](200)},
			key:    "output-action",
			fields: map[string]string{"output-node-connector": "CONTROLLER", "max-length": "200"},
		},
		{
			name:   "group",
			action: &GroupAction{Group: "g1", GroupID: Ptr[uint32](7)},
			key:    "group-action",
			fields: map[string]string{"group": "g1", "group-id": "7"},
		},
		{
			name:   "set queue",
			action: &SetQueueAction{Queue: "q", QueueID: Ptr[uint32](2)},
			key:    "set-queue-action",
			fields: map[string]string{"queue": "q", "queue-id": "2"},
		},
		{
			name:   "set nw dst",
			action: &SetNwDstAction{Address: "10.0.0.1/32"},
			key:    "set-nw-dst-action",
			fields: map[string]string{"address": "10.0.0.1/32"},
		},
		{
			name:   "set dl src",
			action: &SetDlSrcAction{Address: "00:00:00:00:00:01"},
			key:    "set-dl-src-action",
			fields: map[string]string{"address": "00:00:00:00:00:01"},
		},
		{
			name:   "set nw ttl",
			action: &SetNwTTLAction{TTL: Ptr[uint8](64)},
			key:    "set-nw-ttl-action",
			fields: map[string]string{"nw-ttl": "64"},
		},
		{
			name:   "set tp dst",
			action: &SetTpDstAction{Port: Ptr[uint16](8080)},
			key:    "set-tp-dst-action",
			fields: map[string]string{"port": "8080"},
		},
		{
			name:   "push mpls",
			action: &PushMplsAction{EthernetType: Ptr[uint16](0x8847)},
			key:    "push-mpls-action",
			fields: map[string]string{"ethernet-type": "34887"},
		},
		{
			name:   "push vlan partial",
			action: &PushVlanAction{EthernetType: Ptr[uint16](0x8100), VlanID: Ptr[uint16](100)},
			key:    "push-vlan-action",
			fields: map[string]string{"ethernet-type": "33024", "vlan-id": "100"},
		},
		{
			name:   "push pbb",
			action: &PushPbbAction{EthernetType: Ptr[uint16](0x88e7)},
			key:    "push-pbb-action",
			fields: map[string]string{"ethernet-type": "35047"},
		},
		{
			name:   "set field vlan",
			action: &SetFieldAction{VlanID: Ptr[uint16](10)},
			key:    "set-field",
			fields: map[string]string{"vlan-match.vlan-id.vlan-id": "10", "vlan-match.vlan-id.vlan-id-present": "true"},
		},
		{
			name:   "set field mpls",
			action: &SetFieldAction{MplsLabel: Ptr[uint32](27)},
			key:    "set-field",
			fields: map[string]string{"protocol-match-fields.mpls-label": "27"},
		},
		{name: "pop vlan", action: &PopVlanAction{}, key: "pop-vlan-action"},
		{name: "drop", action: &DropAction{}, key: "drop-action"},
		{name: "flood", action: &FloodAction{}, key: "flood-action"},
		{name: "flood all", action: &FloodAllAction{}, key: "flood-all-action"},
		{name: "copy ttl in", action: &CopyTTLInAction{}, key: "copy-ttl-in"},
		{name: "dec nw ttl", action: &DecNwTTLAction{}, key: "dec-nw-ttl"},
		{name: "strip vlan", action: &StripVlanAction{}, key: "strip-vlan-action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := actionJSON(tt.action)
			if err != nil {
				t.Fatalf("actionJSON() error = %v", err)
			}
			doc := gjson.Parse(s)
			container := doc.Get(tt.key)
			if !container.IsObject() {
				t.Fatalf("actionJSON() = %s, want object at %q", s, tt.key)
			}
			for path, want := range tt.fields {
				if got := container.Get(path).String(); got != want {
					t.Errorf("%s.%s = %q, want %q", tt.key, path, got, want)
				}
			}
			if len(tt.fields) == 0 && container.Raw != "{}" {
				t.Errorf("%s = %s, want {}", tt.key, container.Raw)
			}
		})
	}
}

func TestActionJSON_Order(t *testing.T) {
	s, err := actionJSON(&DropAction{Order: 3})
	if err != nil {
		t.Fatalf("actionJSON() error = %v", err)
	}
	if got := gjson.Get(s, "order").Int(); got != 3 {
		t.Errorf("order = %d, want 3", got)
	}
}

func TestActionValidation(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		field  string
	}{
		{"output without port", &OutputAction{}, "output port"},
		{"group without name", &GroupAction{GroupID: Ptr[uint32](1)}, "group"},
		{"group without id", &GroupAction{Group: "g"}, "group id"},
		{"queue without id", &SetQueueAction{Queue: "q"}, "queue id"},
		{"nw dst without address", &SetNwDstAction{}, "IP address"},
		{"dl dst without address", &SetDlDstAction{}, "MAC address"},
		{"mpls ttl missing", &SetMplsTTLAction{}, "MPLS TTL"},
		{"tp src missing", &SetTpSrcAction{}, "port"},
		{"vlan id missing", &SetVlanIDAction{}, "VLAN id"},
		{"vlan pcp missing", &SetVlanPCPAction{}, "VLAN PCP"},
		{"pop mpls missing", &PopMplsAction{}, "ethernet type"},
		{"nil", nil, "action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeAction(tt.action)
			var verr *bvc.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("encodeAction() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestPtr(t *testing.T) {
	p := Ptr[uint16](42)
	if p == nil || *p != 42 {
		t.Errorf("Ptr(42) = %v", p)
	}
}
