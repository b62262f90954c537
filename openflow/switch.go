// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/netascode/go-bvc"
	"github.com/tidwall/gjson"
)

const (
	inventoryPrefix  = "flow-node-inventory:"
	capabilityPrefix = "flow-node-inventory:flow-feature-capability-"
)

// OFSwitch is an OpenFlow switch connected to the controller.
//
// Example:
//
//	sw, err := openflow.NewOFSwitch(ctrl, "openflow:1", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := sw.OperationalFlowsOVS(ctx, 0, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if e := res.Err(); e != nil {
//	    log.Fatal(e)
//	}
//	for _, f := range res.Value {
//	    fmt.Println(f)
//	}
type OFSwitch struct {
	bvc.OpenflowNode

	// DPID is the datapath id, informational only
	DPID string

	ctrl *bvc.Controller
}

// NewOFSwitch returns the switch with inventory id name
func NewOFSwitch(ctrl *bvc.Controller, name, dpid string) (*OFSwitch, error) {
	if ctrl == nil {
		return nil, bvc.Required("controller")
	}
	n, err := bvc.NewOpenflowNode(name)
	if err != nil {
		return nil, err
	}
	return &OFSwitch{OpenflowNode: *n, DPID: dpid, ctrl: ctrl}, nil
}

// SwitchInfo is the general description of a switch
type SwitchInfo struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	SerialNumber string `json:"serial-number,omitempty"`
	Software     string `json:"software,omitempty"`
	Hardware     string `json:"hardware,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Features are the OpenFlow features a switch announced
type Features struct {
	MaxTables    int64    `json:"max_tables"`
	MaxBuffers   int64    `json:"max_buffers"`
	Capabilities []string `json:"capabilities"`
}

// PortBrief is a one-line summary of a switch port
type PortBrief struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	Name           string `json:"name"`
	MACAddress     string `json:"mac-address"`
	CurrentFeature string `json:"current-feature"`
}

func (s *OFSwitch) client() *bvc.Client {
	return s.ctrl.Client()
}

func (s *OFSwitch) operationalURI() string {
	return s.ctrl.NodeOperationalURI(s)
}

func (s *OFSwitch) configURI() string {
	return s.ctrl.NodeConfigURI(s)
}

func (s *OFSwitch) flowPath(table uint8, id string) string {
	return bvc.JoinPath(s.configURI(), "table", strconv.Itoa(int(table)), "flow", id)
}

func (s *OFSwitch) tablePath(root string, table uint8) string {
	return bvc.JoinPath(root, inventoryPrefix+"table", strconv.Itoa(int(table)))
}

// SwitchInfo returns manufacturer, serial number, software, hardware and
// description of the switch. Keys the switch does not report stay empty.
func (s *OFSwitch) SwitchInfo(ctx context.Context) (bvc.Res[SwitchInfo], error) {
	return bvc.Fetch(ctx, s.client(), "SwitchInfo", s.operationalURI(), func(body gjson.Result) bvc.Res[SwitchInfo] {
		node := body.Get("node.0")
		if !node.Exists() {
			return bvc.NotFound[SwitchInfo]()
		}
		return bvc.Found(SwitchInfo{
			Manufacturer: node.Get(inventoryPrefix + "manufacturer").String(),
			SerialNumber: node.Get(inventoryPrefix + "serial-number").String(),
			Software:     node.Get(inventoryPrefix + "software").String(),
			Hardware:     node.Get(inventoryPrefix + "hardware").String(),
			Description:  node.Get(inventoryPrefix + "description").String(),
		})
	})
}

// FeaturesInfo returns the table and buffer counts and the capability names
// with their inventory prefix removed, e.g. "flow-stats".
func (s *OFSwitch) FeaturesInfo(ctx context.Context) (bvc.Res[Features], error) {
	return bvc.Fetch(ctx, s.client(), "FeaturesInfo", s.operationalURI(), func(body gjson.Result) bvc.Res[Features] {
		f := body.Get("node.0." + inventoryPrefix + "switch-features")
		if !f.Exists() {
			return bvc.NotFound[Features]()
		}
		features := Features{
			MaxTables:    f.Get("max_tables").Int(),
			MaxBuffers:   f.Get("max_buffers").Int(),
			Capabilities: []string{},
		}
		for _, c := range f.Get("capabilities").Array() {
			features.Capabilities = append(features.Capabilities, strings.TrimPrefix(c.String(), capabilityPrefix))
		}
		return bvc.Found(features)
	})
}

// PortsList returns the port numbers of the switch
func (s *OFSwitch) PortsList(ctx context.Context) (bvc.Res[[]string], error) {
	return bvc.Fetch(ctx, s.client(), "PortsList", s.operationalURI(), func(body gjson.Result) bvc.Res[[]string] {
		connectors := body.Get("node.0.node-connector")
		if !connectors.Exists() {
			return bvc.NotFound[[]string]()
		}
		ports := []string{}
		for _, p := range connectors.Array() {
			ports = append(ports, p.Get(inventoryPrefix+"port-number").String())
		}
		return bvc.Found(ports)
	})
}

// PortsBriefInfo summarizes every port of the switch
func (s *OFSwitch) PortsBriefInfo(ctx context.Context) (bvc.Res[[]PortBrief], error) {
	return bvc.Fetch(ctx, s.client(), "PortsBriefInfo", s.operationalURI(), func(body gjson.Result) bvc.Res[[]PortBrief] {
		connectors := body.Get("node.0.node-connector")
		if !connectors.Exists() {
			return bvc.NotFound[[]PortBrief]()
		}
		ports := []PortBrief{}
		for _, p := range connectors.Array() {
			ports = append(ports, PortBrief{
				ID:             p.Get("id").String(),
				Number:         p.Get(inventoryPrefix + "port-number").String(),
				Name:           p.Get(inventoryPrefix + "name").String(),
				MACAddress:     p.Get(inventoryPrefix + "hardware-address").String(),
				CurrentFeature: strings.ToUpper(p.Get(inventoryPrefix + "current-feature").String()),
			})
		}
		return bvc.Found(ports)
	})
}

// PortDetailInfo returns the operational data of one port, e.g. "1" or
// "LOCAL".
func (s *OFSwitch) PortDetailInfo(ctx context.Context, port string) (bvc.Res[gjson.Result], error) {
	if port == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("port")
	}
	path := bvc.JoinPath(s.operationalURI(), "node-connector", s.Name+":"+port)
	return bvc.Fetch(ctx, s.client(), "PortDetailInfo", path, bvc.Extract("node-connector.0"))
}

// AddModifyFlow creates the flow in the config datastore, replacing any
// flow with the same table and id.
func (s *OFSwitch) AddModifyFlow(ctx context.Context, flow *FlowEntry) (bvc.Res[gjson.Result], error) {
	if flow == nil {
		return bvc.Res[gjson.Result]{}, bvc.Required("flow")
	}
	doc, err := flow.JSON()
	if err != nil {
		return bvc.Res[gjson.Result]{}, err
	}
	s.client().Logger().Info(ctx, "Programming flow", "switch", s.Name, "table", flow.TableID(), "flow", flow.ID())
	return bvc.Write(ctx, s.client(), "AddModifyFlow", http.MethodPut, s.flowPath(flow.TableID(), flow.ID()), []byte(doc),
		bvc.Header("Content-Type", bvc.MediaTypeYangDataJSON)), nil
}

// ConfiguredFlow returns one flow from the config datastore
func (s *OFSwitch) ConfiguredFlow(ctx context.Context, table uint8, id string) (bvc.Res[gjson.Result], error) {
	if id == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("flow id")
	}
	return bvc.Fetch(ctx, s.client(), "ConfiguredFlow", s.flowPath(table, id), bvc.WholeBody)
}

// DeleteFlow removes one flow from the config datastore
func (s *OFSwitch) DeleteFlow(ctx context.Context, table uint8, id string) (bvc.Res[gjson.Result], error) {
	if id == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("flow id")
	}
	s.client().Logger().Info(ctx, "Removing flow", "switch", s.Name, "table", table, "flow", id)
	return bvc.Write(ctx, s.client(), "DeleteFlow", http.MethodDelete, s.flowPath(table, id), nil), nil
}

// OperationalFlows returns the flows the switch reports for a table
func (s *OFSwitch) OperationalFlows(ctx context.Context, table uint8) (bvc.Res[[]gjson.Result], error) {
	return s.flows(ctx, "OperationalFlows", s.tablePath(s.operationalURI(), table))
}

// ConfiguredFlows returns the flows of a table in the config datastore
func (s *OFSwitch) ConfiguredFlows(ctx context.Context, table uint8) (bvc.Res[[]gjson.Result], error) {
	return s.flows(ctx, "ConfiguredFlows", s.tablePath(s.configURI(), table))
}

func (s *OFSwitch) flows(ctx context.Context, op, path string) (bvc.Res[[]gjson.Result], error) {
	return bvc.Fetch(ctx, s.client(), op, path, func(body gjson.Result) bvc.Res[[]gjson.Result] {
		flows := body.Get(inventoryPrefix + "table.0.flow")
		if !flows.IsArray() {
			return bvc.NotFound[[]gjson.Result]()
		}
		return bvc.Found(flows.Array())
	})
}

// OperationalFlowsOVS returns the operational flows of a table in ovs
// terms, optionally sorted by ascending priority.
func (s *OFSwitch) OperationalFlowsOVS(ctx context.Context, table uint8, sortByPriority bool) (bvc.Res[[]OVSFlow], error) {
	res, err := s.OperationalFlows(ctx, table)
	return s.toOVS(res, sortByPriority), err
}

// ConfiguredFlowsOVS returns the configured flows of a table in ovs terms,
// optionally sorted by ascending priority.
func (s *OFSwitch) ConfiguredFlowsOVS(ctx context.Context, table uint8, sortByPriority bool) (bvc.Res[[]OVSFlow], error) {
	res, err := s.ConfiguredFlows(ctx, table)
	return s.toOVS(res, sortByPriority), err
}

func (s *OFSwitch) toOVS(res bvc.Res[[]gjson.Result], sortByPriority bool) bvc.Res[[]OVSFlow] {
	out := bvc.Res[[]OVSFlow]{
		Operation: res.Operation + "OVS",
		Status:    res.Status,
		Raw:       res.Raw,
		Response:  res.Response,
		Cause:     res.Cause,
	}
	if !res.OK() {
		return out
	}
	flows := res.Value
	if sortByPriority {
		SortByPriority(flows)
	}
	out.Value = make([]OVSFlow, 0, len(flows))
	for _, f := range flows {
		out.Value = append(out.Value, ToOVS(s.Name, f))
	}
	return out
}
