// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

const statsFlow = `{
	"id": "1",
	"cookie": 1234,
	"table_id": 0,
	"priority": 1000,
	"idle-timeout": 0,
	"hard-timeout": 20,
	"opendaylight-flow-statistics:flow-statistics": {
		"duration": {"second": 22, "nanosecond": 128000000},
		"byte-count": 180,
		"packet-count": 3
	},
	"match": {
		"in-port": "openflow:1:1",
		"ethernet-match": {
			"ethernet-type": {"type": 2048},
			"ethernet-source": {"address": "00:00:00:00:00:01"}
		},
		"ipv4-destination": "10.0.0.2/32"
	},
	"instructions": {"instruction": [{
		"order": 0,
		"apply-actions": {"action": [
			{"order": 1, "output-action": {"output-node-connector": "5"}},
			{"order": 0, "output-action": {"output-node-connector": "CONTROLLER", "max-length": 200}}
		]}
	}]}
}`

func TestToOVS(t *testing.T) {
	got := ToOVS("openflow:1", gjson.Parse(statsFlow))

	want := OVSFlow{
		"cookie":       "0x4d2",
		"duration":     "22.128s",
		"n_bytes":      int64(180),
		"n_packets":    int64(3),
		"table":        int64(0),
		"hard_timeout": int64(20),
		"priority":     int64(1000),
		"in_port":      "1",
		"dl_type":      "0x800",
		"dl_src":       "00:00:00:00:00:01",
		"nw_dst":       "10.0.0.2/32",
		"actions":      "CONTROLLER:200,output:5",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToOVS() = %v, want %v", got, want)
	}
}

func TestToOVS_String(t *testing.T) {
	got := ToOVS("openflow:1", gjson.Parse(statsFlow)).String()
	want := "cookie=0x4d2, duration=22.128s, table=0, n_packets=3, n_bytes=180, hard_timeout=20, " +
		"priority=1000,in_port=1,dl_src=00:00:00:00:00:01,dl_type=0x800,nw_dst=10.0.0.2/32 " +
		"actions=CONTROLLER:200,output:5"
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestToOVS_Actions(t *testing.T) {
	tests := []struct {
		name    string
		flow    string
		want    string
		present bool
	}{
		{
			name:    "no instructions",
			flow:    `{"priority": 1}`,
			want:    "drop",
			present: true,
		},
		{
			name:    "empty action list",
			flow:    `{"instructions": {"instruction": [{"order": 0, "apply-actions": {"action": []}}]}}`,
			want:    "",
			present: true,
		},
		{
			name: "no apply-actions",
			flow: `{"instructions": {"instruction": [{"order": 0, "go-to-table": {"table_id": 1}}]}}`,
		},
		{
			name:    "controller without max length",
			flow:    `{"instructions": {"instruction": [{"apply-actions": {"action": [{"order": 0, "output-action": {"output-node-connector": "CONTROLLER"}}]}}]}}`,
			want:    "CONTROLLER",
			present: true,
		},
		{
			name: "non-output actions are skipped",
			flow: `{"instructions": {"instruction": [{"apply-actions": {"action": [
				{"order": 0, "dec-nw-ttl": {}},
				{"order": 1, "output-action": {"output-node-connector": "2"}}
			]}}]}}`,
			want:    "output:2",
			present: true,
		},
		{
			name: "output without port",
			flow: `{"instructions": {"instruction": [{"apply-actions": {"action": [
				{"order": 0, "output-action": {"max-length": 60}},
				{"order": 1, "output-action": {"output-node-connector": "5"}}
			]}}]}}`,
			want:    ",output:5",
			present: true,
		},
		{
			name: "actions across instructions",
			flow: `{"instructions": {"instruction": [
				{"order": 0, "apply-actions": {"action": [{"order": 2, "output-action": {"output-node-connector": "3"}}]}},
				{"order": 1, "apply-actions": {"action": [{"order": 1, "output-action": {"output-node-connector": "4"}}]}}
			]}}`,
			want:    "output:4,output:3",
			present: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ovs := ToOVS("openflow:1", gjson.Parse(tt.flow))
			got, ok := ovs["actions"]
			if ok != tt.present {
				t.Fatalf("actions present = %v, want %v", ok, tt.present)
			}
			if ok && got != tt.want {
				t.Errorf("actions = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToOVS_Timeouts(t *testing.T) {
	ovs := ToOVS("openflow:1", gjson.Parse(`{"idle-timeout": 0, "hard-timeout": 0}`))
	if _, ok := ovs["idle_timeout"]; ok {
		t.Error("idle_timeout present for 0")
	}
	if _, ok := ovs["hard_timeout"]; ok {
		t.Error("hard_timeout present for 0")
	}

	ovs = ToOVS("openflow:1", gjson.Parse(`{"idle-timeout": 20}`))
	if ovs["idle_timeout"] != int64(20) {
		t.Errorf("idle_timeout = %v, want 20", ovs["idle_timeout"])
	}
}

func TestToOVS_Match(t *testing.T) {
	flow := `{"match": {
		"in-port": "openflow:2:7",
		"vlan-match": {"vlan-id": {"vlan-id": 100, "vlan-id-present": true}, "vlan-pcp": 3},
		"ethernet-match": {"ethernet-destination": {"address": "ff:ff:ff:ff:ff:ff"}},
		"ip-match": {"ip-protocol": 6},
		"tcp-source-port": 8080,
		"ipv4-source": "10.0.0.1/32"
	}}`
	got := ToOVS("openflow:1", gjson.Parse(flow))
	want := OVSFlow{
		"in_port":     "7",
		"dl_vlan":     int64(100),
		"dl_vlan_pcp": int64(3),
		"dl_dst":      "ff:ff:ff:ff:ff:ff",
		"nw_proto":    int64(6),
		"tp_src":      int64(8080),
		"nw_src":      "10.0.0.1/32",
		"actions":     "drop",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToOVS() = %v, want %v", got, want)
	}
}

func TestPortNumber(t *testing.T) {
	tests := []struct {
		switchName string
		id         string
		want       string
	}{
		{"openflow:1", "openflow:1:3", "3"},
		{"openflow:1", "openflow:1:LOCAL", "LOCAL"},
		{"openflow:1", "openflow:12:4", "4"},
		{"openflow:1", "3", "3"},
		{"", "openflow:1:3", "3"},
	}
	for _, tt := range tests {
		if got := portNumber(tt.switchName, tt.id); got != tt.want {
			t.Errorf("portNumber(%q, %q) = %q, want %q", tt.switchName, tt.id, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec, nsec uint64
		want      string
	}{
		{22, 128000000, "22.128s"},
		{5, 0, "5.0s"},
		{0, 500000000, "0.5s"},
		{1, 1, "1.000000001s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.sec, tt.nsec); got != tt.want {
			t.Errorf("formatDuration(%d, %d) = %q, want %q", tt.sec, tt.nsec, got, tt.want)
		}
	}
}

func TestCookieHex(t *testing.T) {
	tests := []struct {
		cookie string
		want   string
	}{
		{"0", "0x0"},
		{"1234", "0x4d2"},
		{"18446744073709551615", "0xffffffffffffffff"},
	}
	for _, tt := range tests {
		ovs := ToOVS("openflow:1", gjson.Parse(`{"cookie":`+tt.cookie+`}`))
		if ovs["cookie"] != tt.want {
			t.Errorf("cookie %s = %v, want %s", tt.cookie, ovs["cookie"], tt.want)
		}
	}
}

func TestSortByPriority(t *testing.T) {
	flows := []gjson.Result{
		gjson.Parse(`{"id":"a","priority":200}`),
		gjson.Parse(`{"id":"b","priority":100}`),
		gjson.Parse(`{"id":"c"}`),
		gjson.Parse(`{"id":"d","priority":100}`),
		gjson.Parse(`{"id":"e","priority":0}`),
	}
	SortByPriority(flows)

	var got []string
	for _, f := range flows {
		got = append(got, f.Get("id").String())
	}
	want := []string{"c", "e", "b", "d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByPriority() order = %v, want %v", got, want)
	}
}

func TestOVSFlowString_Empty(t *testing.T) {
	if got := (OVSFlow{}).String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
	if got := (OVSFlow{"actions": "drop"}).String(); got != "actions=drop" {
		t.Errorf("String() = %q, want %q", got, "actions=drop")
	}
}
