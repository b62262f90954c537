// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const flowStatsKey = "opendaylight-flow-statistics:flow-statistics"

// OVSFlow is a flow in ovs-ofctl dump-flows terms. Keys are the ovs field
// names ("cookie", "duration", "in_port", "actions", ...); values are strings
// or the numbers found in the controller document.
type OVSFlow map[string]any

// ToOVS translates one flow as returned by the controller into ovs terms.
//
// switchName is the inventory id of the switch owning the flow; it is
// stripped from the in-port match. ToOVS never fails: absent fields are
// simply left out.
func ToOVS(switchName string, flow gjson.Result) OVSFlow {
	ovs := OVSFlow{}

	if v := flow.Get("cookie"); v.Exists() {
		ovs["cookie"] = "0x" + strconv.FormatUint(v.Uint(), 16)
	}

	stats := flow.Get(flowStatsKey)
	if d := stats.Get("duration"); d.Exists() {
		ovs["duration"] = formatDuration(d.Get("second").Uint(), d.Get("nanosecond").Uint())
	}
	if v := stats.Get("byte-count"); v.Exists() {
		ovs["n_bytes"] = rawValue(v)
	}
	if v := stats.Get("packet-count"); v.Exists() {
		ovs["n_packets"] = rawValue(v)
	}

	if v := flow.Get("table_id"); v.Exists() {
		ovs["table"] = rawValue(v)
	}
	if v := flow.Get("idle-timeout"); v.Exists() && v.Int() != 0 {
		ovs["idle_timeout"] = rawValue(v)
	}
	if v := flow.Get("hard-timeout"); v.Exists() && v.Int() != 0 {
		ovs["hard_timeout"] = rawValue(v)
	}
	if v := flow.Get("priority"); v.Exists() {
		ovs["priority"] = rawValue(v)
	}

	translateMatch(ovs, switchName, flow.Get("match"))

	instructions := flow.Get("instructions.instruction")
	if !instructions.Exists() {
		ovs["actions"] = "drop"
		return ovs
	}
	if actions, ok := outputActions(instructions); ok {
		ovs["actions"] = actions
	}
	return ovs
}

func translateMatch(ovs OVSFlow, switchName string, match gjson.Result) {
	if !match.Exists() {
		return
	}
	if v := match.Get("in-port"); v.Exists() {
		ovs["in_port"] = portNumber(switchName, v.String())
	}
	if v := match.Get("vlan-match.vlan-id.vlan-id"); v.Exists() {
		ovs["dl_vlan"] = rawValue(v)
	}
	if v := match.Get("vlan-match.vlan-pcp"); v.Exists() {
		ovs["dl_vlan_pcp"] = rawValue(v)
	}
	if v := match.Get("ethernet-match.ethernet-type.type"); v.Exists() {
		ovs["dl_type"] = "0x" + strconv.FormatUint(v.Uint(), 16)
	}
	if v := match.Get("ethernet-match.ethernet-source.address"); v.Exists() {
		ovs["dl_src"] = v.String()
	}
	if v := match.Get("ethernet-match.ethernet-destination.address"); v.Exists() {
		ovs["dl_dst"] = v.String()
	}
	if v := match.Get("ip-match.ip-protocol"); v.Exists() {
		ovs["nw_proto"] = rawValue(v)
	}
	if v := match.Get("tcp-source-port"); v.Exists() {
		ovs["tp_src"] = rawValue(v)
	}
	if v := match.Get("ipv4-source"); v.Exists() {
		ovs["nw_src"] = v.String()
	}
	if v := match.Get("ipv4-destination"); v.Exists() {
		ovs["nw_dst"] = v.String()
	}
}

// portNumber strips "<switchName>:" from an inventory port id. Ids owned by
// another switch fall back to the text after the last ':'.
func portNumber(switchName, id string) string {
	if _, after, ok := strings.Cut(id, switchName+":"); ok && switchName != "" {
		return after
	}
	if i := strings.LastIndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}

type outputDescriptor struct {
	order int64
	text  string
}

// outputActions collects the output actions of every apply-actions
// instruction, ordered by their order field. ok is false when no
// instruction carries an action list.
func outputActions(instructions gjson.Result) (string, bool) {
	var (
		found bool
		outs  []outputDescriptor
	)
	for _, inst := range instructions.Array() {
		actions := inst.Get("apply-actions.action")
		if !actions.Exists() {
			continue
		}
		found = true
		for _, a := range actions.Array() {
			out := a.Get("output-action")
			if !out.Exists() {
				continue
			}
			// An output without a port still takes its slot, as an empty
			// descriptor.
			text := ""
			if port := out.Get("output-node-connector"); port.Exists() {
				text = describeOutput(port.String(), out.Get("max-length"))
			}
			outs = append(outs, outputDescriptor{
				order: a.Get("order").Int(),
				text:  text,
			})
		}
	}
	if !found {
		return "", false
	}

	sort.SliceStable(outs, func(i, j int) bool { return outs[i].order < outs[j].order })
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = o.text
	}
	return strings.Join(parts, ","), true
}

func describeOutput(port string, maxLength gjson.Result) string {
	if port == "CONTROLLER" {
		if maxLength.Exists() {
			return port + ":" + maxLength.String()
		}
		return port
	}
	return "output:" + port
}

// formatDuration renders seconds plus nanoseconds the way ovs does, with at
// least one decimal place: "22.128s", "5.0s".
func formatDuration(sec, nsec uint64) string {
	d := float64(sec*1e9+nsec) / 1e9
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "s"
}

// rawValue returns a JSON scalar as int64, uint64, float64, string or bool
func rawValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Number:
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(v.Raw, 10, 64); err == nil {
			return u
		}
		return v.Float()
	case gjson.True, gjson.False:
		return v.Bool()
	default:
		return v.String()
	}
}

// Field order of a dump-flows line
var (
	ovsHeaderFields = []string{"cookie", "duration", "table", "n_packets", "n_bytes", "idle_timeout", "hard_timeout"}
	ovsMatchFields  = []string{"priority", "in_port", "dl_vlan", "dl_vlan_pcp", "dl_src", "dl_dst", "dl_type", "nw_src", "nw_dst", "nw_proto", "tp_src"}
)

// String renders the flow as one ovs-ofctl dump-flows line, e.g.
//
//	cookie=0x4d2, duration=22.128s, table=0, n_packets=3, n_bytes=180, priority=1000,in_port=1 actions=CONTROLLER:200,output:5
func (f OVSFlow) String() string {
	var header, match []string
	for _, k := range ovsHeaderFields {
		if v, ok := f[k]; ok {
			header = append(header, k+"="+formatOVSValue(v))
		}
	}
	for _, k := range ovsMatchFields {
		if v, ok := f[k]; ok {
			match = append(match, k+"="+formatOVSValue(v))
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, ", "))
	if len(match) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strings.Join(match, ","))
	}
	if v, ok := f["actions"]; ok {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("actions=" + formatOVSValue(v))
	}
	return sb.String()
}

func formatOVSValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// SortByPriority orders flows by ascending priority. Flows with equal or
// missing priority keep their relative order.
func SortByPriority(flows []gjson.Result) {
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Get("priority").Int() < flows[j].Get("priority").Int()
	})
}
