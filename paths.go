// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import "net/url"

// RESTCONF datastore roots for the inventory
const (
	ConfigNodesPath      = "/restconf/config/opendaylight-inventory:nodes"
	OperationalNodesPath = "/restconf/operational/opendaylight-inventory:nodes"
	OperationsNodesPath  = "/restconf/operations/opendaylight-inventory:nodes"
	StreamsPath          = "/restconf/streams"
)

// MountPoint is the path segment that enters a NETCONF device's data tree
const MountPoint = "yang-ext:mount"

// ControllerConfigNode is the pseudo node exposing the controller's own
// config subsystem (services, modules, NETCONF connectors).
const ControllerConfigNode = "controller-config"

// NetconfConnectorModuleType is the module type of a NETCONF connector
const NetconfConnectorModuleType = "odl-sal-netconf-connector-cfg:sal-netconf-connector"

// Inventory keys
const (
	keyNetconfConnected = "netconf-node-inventory:connected"
	openflowIDPrefix    = "openflow"
)

func configNodePath(name string) string {
	return ConfigNodesPath + "/node/" + escapeSegment(name)
}

func operationalNodePath(name string) string {
	return OperationalNodesPath + "/node/" + escapeSegment(name)
}

func operationsNodePath(name string) string {
	return OperationsNodesPath + "/node/" + escapeSegment(name)
}

// controllerConfigPath returns a path below the controller-config mount in
// the given datastore root.
func controllerConfigPath(root, rest string) string {
	return root + "/node/" + ControllerConfigNode + "/" + MountPoint + "/" + rest
}

// escapeSegment escapes characters that would break a URL path segment.
// ':' is kept as is since RESTCONF identifiers use it everywhere.
func escapeSegment(s string) string {
	return url.PathEscape(s)
}

// JoinPath appends escaped segments to a RESTCONF path
func JoinPath(base string, segments ...string) string {
	for _, s := range segments {
		base += "/" + escapeSegment(s)
	}
	return base
}
