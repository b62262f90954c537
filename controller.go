// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Controller is a handle to one controller's RESTCONF API.
//
// All operations return a Res describing the outcome. The returned error is
// only set for invalid arguments, which are rejected before any request, and
// for malformed JSON on a success status.
type Controller struct {
	client *Client
}

// NodeConnStatus is one entry of a connection status listing
type NodeConnStatus struct {
	Node      string `json:"node"`
	Connected bool   `json:"connected"`
}

// NewController creates a Controller for the controller at host.
//
// Port defaults to 8181 and the timeout to 5s. Username and Password are
// required.
//
// Example:
//
//	ctrl, err := bvc.NewController("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := ctrl.AllNodesInConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewController(host string, opts ...func(*Client)) (*Controller, error) {
	client, err := NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &Controller{client: client}, nil
}

// NewControllerWithClient wraps an existing Client
func NewControllerWithClient(client *Client) *Controller {
	return &Controller{client: client}
}

// Client returns the underlying transport
func (c *Controller) Client() *Client {
	return c.client
}

// Logger returns the transport's logger
func (c *Controller) Logger() Logger {
	return c.client.logger
}

// NodeOperationalURI returns the operational datastore path of n
func (c *Controller) NodeOperationalURI(n Node) string {
	return operationalNodePath(n.NodeName())
}

// NodeConfigURI returns the config datastore path of n
func (c *Controller) NodeConfigURI(n Node) string {
	return configNodePath(n.NodeName())
}

// MountConfigURI returns the config path of n's NETCONF mount point
func (c *Controller) MountConfigURI(n Node) string {
	return configNodePath(n.NodeName()) + "/" + MountPoint
}

// Schemas lists the YANG schemas a mounted NETCONF node advertises
func (c *Controller) Schemas(ctx context.Context, nodeName string) (Res[gjson.Result], error) {
	if nodeName == "" {
		return Res[gjson.Result]{}, Required("node name")
	}
	path := operationalNodePath(nodeName) + "/" + MountPoint + "/ietf-netconf-monitoring:netconf-state/schemas"
	return Fetch(ctx, c.client, "Schemas", path, Extract("schemas.schema"))
}

// Schema downloads the YANG text of one schema from a mounted node
func (c *Controller) Schema(ctx context.Context, nodeName, id, version string) (Res[string], error) {
	switch {
	case nodeName == "":
		return Res[string]{}, Required("node name")
	case id == "":
		return Res[string]{}, Required("schema identifier")
	case version == "":
		return Res[string]{}, Required("schema version")
	}

	body, err := Body{}.
		Set("input.identifier", id).
		Set("input.version", version).
		Set("input.format", "yang").
		Bytes()
	if err != nil {
		return Res[string]{}, err
	}

	path := operationsNodePath(nodeName) + "/" + MountPoint + "/ietf-netconf-monitoring:get-schema"
	return Submit(ctx, c.client, "Schema", http.MethodPost, path, body, func(b gjson.Result) Res[string] {
		data := b.Get("get-schema.output.data")
		if !data.Exists() {
			return NotFound[string]()
		}
		return Found(data.String())
	})
}

// ServiceProviders lists the controller's service providers
func (c *Controller) ServiceProviders(ctx context.Context) (Res[gjson.Result], error) {
	path := controllerConfigPath(ConfigNodesPath, "config:services")
	return Fetch(ctx, c.client, "ServiceProviders", path, Extract("services.service"))
}

// ServiceProvider returns one service provider by name
func (c *Controller) ServiceProvider(ctx context.Context, name string) (Res[gjson.Result], error) {
	if name == "" {
		return Res[gjson.Result]{}, Required("service provider name")
	}
	path := JoinPath(controllerConfigPath(ConfigNodesPath, "config:services/service"), name)
	return Fetch(ctx, c.client, "ServiceProvider", path, Extract("service"))
}

// NetconfOperations lists the RPCs a mounted node supports
func (c *Controller) NetconfOperations(ctx context.Context, nodeName string) (Res[gjson.Result], error) {
	if nodeName == "" {
		return Res[gjson.Result]{}, Required("node name")
	}
	path := operationsNodePath(nodeName) + "/" + MountPoint
	return Fetch(ctx, c.client, "NetconfOperations", path, Extract("operations"))
}

// ModulesOperationalState lists the operational state of all controller
// config modules.
//
// The controller breaks long strings in this document with backslash-newline
// sequences; they are removed before parsing.
func (c *Controller) ModulesOperationalState(ctx context.Context) (Res[gjson.Result], error) {
	const op = "ModulesOperationalState"
	path := controllerConfigPath(OperationalNodesPath, "config:modules")
	resp, err := c.client.Get(ctx, path)
	if resp != nil {
		resp.Body = bytes.ReplaceAll(resp.Body, []byte("\\\n"), nil)
	}
	res, perr := Classify(op, resp, Extract("modules.module"))
	if err != nil {
		res.Cause = err
	}
	return res, perr
}

// ModuleOperationalState returns the operational state of one module
func (c *Controller) ModuleOperationalState(ctx context.Context, moduleType, name string) (Res[gjson.Result], error) {
	switch {
	case moduleType == "":
		return Res[gjson.Result]{}, Required("module type")
	case name == "":
		return Res[gjson.Result]{}, Required("module name")
	}
	path := JoinPath(controllerConfigPath(OperationalNodesPath, "config:modules/module"), moduleType, name)
	return Fetch(ctx, c.client, "ModuleOperationalState", path, Extract("module"))
}

// SessionsInfo returns the NETCONF sessions of a mounted node
func (c *Controller) SessionsInfo(ctx context.Context, nodeName string) (Res[gjson.Result], error) {
	if nodeName == "" {
		return Res[gjson.Result]{}, Required("node name")
	}
	path := operationalNodePath(nodeName) + "/" + MountPoint + "/ietf-netconf-monitoring:netconf-state/sessions"
	return Fetch(ctx, c.client, "SessionsInfo", path, Extract("sessions"))
}

// StreamsInfo lists the controller's notification streams
func (c *Controller) StreamsInfo(ctx context.Context) (Res[gjson.Result], error) {
	return Fetch(ctx, c.client, "StreamsInfo", StreamsPath, Extract("streams"))
}

// nodeIDs projects nodes.node[*].id, keeping ids accepted by keep
func nodeIDs(keep func(id string) bool) func(gjson.Result) Res[[]string] {
	return func(body gjson.Result) Res[[]string] {
		nodes := body.Get("nodes.node")
		if !nodes.Exists() {
			return NotFound[[]string]()
		}
		ids := []string{}
		for _, node := range nodes.Array() {
			id := node.Get("id")
			if !id.Exists() {
				continue
			}
			if keep(id.String()) {
				ids = append(ids, id.String())
			}
		}
		return Found(ids)
	}
}

func isOpenflowID(id string) bool {
	return strings.Contains(id, openflowIDPrefix)
}

// AllNodesInConfig lists the ids of all nodes in the config datastore
func (c *Controller) AllNodesInConfig(ctx context.Context) (Res[[]string], error) {
	return Fetch(ctx, c.client, "AllNodesInConfig", ConfigNodesPath, nodeIDs(func(string) bool { return true }))
}

// NetconfNodesInConfig lists the ids of NETCONF nodes in the config datastore
func (c *Controller) NetconfNodesInConfig(ctx context.Context) (Res[[]string], error) {
	return Fetch(ctx, c.client, "NetconfNodesInConfig", ConfigNodesPath, nodeIDs(func(id string) bool {
		return !isOpenflowID(id)
	}))
}

// NetconfNodesConnStatus reports the connection state of every NETCONF node
// in the operational datastore.
func (c *Controller) NetconfNodesConnStatus(ctx context.Context) (Res[[]NodeConnStatus], error) {
	return Fetch(ctx, c.client, "NetconfNodesConnStatus", OperationalNodesPath, func(body gjson.Result) Res[[]NodeConnStatus] {
		nodes := body.Get("nodes.node")
		if !nodes.Exists() {
			return NotFound[[]NodeConnStatus]()
		}
		list := []NodeConnStatus{}
		for _, node := range nodes.Array() {
			id := node.Get("id").String()
			if isOpenflowID(id) {
				continue
			}
			list = append(list, NodeConnStatus{Node: id, Connected: node.Get(keyNetconfConnected).Bool()})
		}
		return Found(list)
	})
}

// NodesOperationalList lists the ids of all nodes in the operational datastore
func (c *Controller) NodesOperationalList(ctx context.Context) (Res[[]string], error) {
	return Fetch(ctx, c.client, "NodesOperationalList", OperationalNodesPath, nodeIDs(func(string) bool { return true }))
}

// OpenflowNodesOperationalList lists the ids of OpenFlow switches in the
// operational datastore.
func (c *Controller) OpenflowNodesOperationalList(ctx context.Context) (Res[[]string], error) {
	return Fetch(ctx, c.client, "OpenflowNodesOperationalList", OperationalNodesPath, nodeIDs(func(id string) bool {
		return strings.HasPrefix(id, openflowIDPrefix)
	}))
}

// NodeInfo returns the operational data of one node
func (c *Controller) NodeInfo(ctx context.Context, nodeName string) (Res[gjson.Result], error) {
	if nodeName == "" {
		return Res[gjson.Result]{}, Required("node name")
	}
	return Fetch(ctx, c.client, "NodeInfo", operationalNodePath(nodeName), Extract("node"))
}

// CheckNodeConfigStatus reports StatusNodeConfigured, with the node's config
// as Value, when the node exists in the config datastore.
func (c *Controller) CheckNodeConfigStatus(ctx context.Context, nodeName string) (Res[gjson.Result], error) {
	if nodeName == "" {
		return Res[gjson.Result]{}, Required("node name")
	}
	return Fetch(ctx, c.client, "CheckNodeConfigStatus", configNodePath(nodeName), func(body gjson.Result) Res[gjson.Result] {
		return Res[gjson.Result]{Status: StatusNodeConfigured, Value: body}
	})
}

// CheckNodeConnStatus reports StatusNodeConnected or StatusNodeDisconnected,
// or StatusNodeNotFound when the operational datastore answers 404.
//
// OpenFlow switches have no NETCONF connected flag and always report
// disconnected here; use AllNodesConnStatus for them.
func (c *Controller) CheckNodeConnStatus(ctx context.Context, nodeName string) (Res[bool], error) {
	const op = "CheckNodeConnStatus"
	if nodeName == "" {
		return Res[bool]{}, Required("node name")
	}
	resp, err := c.client.Get(ctx, operationalNodePath(nodeName))
	res, perr := ClassifyConnStatus(op, resp, func(body gjson.Result) Res[bool] {
		node := body.Get("node.0")
		if node.Get("id").Exists() && node.Get(keyNetconfConnected).Bool() {
			return Res[bool]{Status: StatusNodeConnected, Value: true}
		}
		return Res[bool]{Status: StatusNodeDisconnected}
	})
	if err != nil {
		res.Cause = err
	}
	return res, perr
}

// AllNodesConnStatus reports the connection state of every node in the
// operational datastore. OpenFlow switches are always connected: they only
// appear there while their session is up.
func (c *Controller) AllNodesConnStatus(ctx context.Context) (Res[[]NodeConnStatus], error) {
	return Fetch(ctx, c.client, "AllNodesConnStatus", OperationalNodesPath, func(body gjson.Result) Res[[]NodeConnStatus] {
		nodes := body.Get("nodes.node")
		if !nodes.Exists() {
			return NotFound[[]NodeConnStatus]()
		}
		list := []NodeConnStatus{}
		for _, node := range nodes.Array() {
			id := node.Get("id").String()
			connected := isOpenflowID(id) || node.Get(keyNetconfConnected).Bool()
			list = append(list, NodeConnStatus{Node: id, Connected: connected})
		}
		return Found(list)
	})
}

// AddNetconfNode mounts a NETCONF device by creating a connector module
func (c *Controller) AddNetconfNode(ctx context.Context, n *NetconfNode) (Res[gjson.Result], error) {
	if n == nil {
		return Res[gjson.Result]{}, Required("node")
	}
	doc, err := n.MountXML()
	if err != nil {
		return Res[gjson.Result]{}, err
	}
	path := controllerConfigPath(ConfigNodesPath, "config:modules")
	c.client.logger.Info(ctx, "Mounting NETCONF node", "node", n.Name, "address", n.Address)
	return Write(ctx, c.client, "AddNetconfNode", http.MethodPost, path, doc,
		Header("Content-Type", MediaTypeXML),
		Header("Accept", MediaTypeXML)), nil
}

// DeleteNetconfNode removes the connector module of a NETCONF device
func (c *Controller) DeleteNetconfNode(ctx context.Context, n Node) (Res[gjson.Result], error) {
	if n == nil || n.NodeName() == "" {
		return Res[gjson.Result]{}, Required("node")
	}
	path := JoinPath(controllerConfigPath(ConfigNodesPath, "config:modules/module/"+NetconfConnectorModuleType), n.NodeName())
	c.client.logger.Info(ctx, "Unmounting NETCONF node", "node", n.NodeName())
	return Write(ctx, c.client, "DeleteNetconfNode", http.MethodDelete, path, nil), nil
}
