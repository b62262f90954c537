// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Node is a device managed through the controller.
//
// The set of node kinds is closed: NetconfNode and OpenflowNode, plus device
// types that embed one of them (openflow.OFSwitch, vrouter.VRouter5600).
type Node interface {
	// NodeName returns the node id used in RESTCONF paths
	NodeName() string

	node()
}

// NetconfNodeConfig describes a NETCONF device to mount on the controller
type NetconfNodeConfig struct {
	// Name is the node id, e.g. "vRouter"
	Name string

	// Address is the device management IP or host name
	Address string

	// Port is the device NETCONF port, usually 830
	Port int

	// Username and Password log in to the device
	Username string
	Password string

	// TCPOnly disables SSH and talks NETCONF over plain TCP
	TCPOnly bool
}

// NetconfNode is a NETCONF-managed device
type NetconfNode struct {
	Name     string
	Address  string
	Port     int
	Username string
	Password string
	TCPOnly  bool
}

// NewNetconfNode validates cfg and returns the node
func NewNetconfNode(cfg NetconfNodeConfig) (*NetconfNode, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &NetconfNode{
		Name:     cfg.Name,
		Address:  cfg.Address,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		TCPOnly:  cfg.TCPOnly,
	}, nil
}

func (cfg NetconfNodeConfig) validate() error {
	switch {
	case strings.TrimSpace(cfg.Name) == "":
		return Required("node name")
	case strings.TrimSpace(cfg.Address) == "":
		return Required("node address")
	case cfg.Port == 0:
		return Required("node port")
	case cfg.Port < 1 || cfg.Port > 65535:
		return &ValidationError{Field: "node port", Reason: fmt.Sprintf("must be 1-65535, got: %d", cfg.Port)}
	case cfg.Username == "":
		return Required("node username")
	case cfg.Password == "":
		return Required("node password")
	}
	return nil
}

// NodeName returns the node id
func (n *NetconfNode) NodeName() string {
	if n == nil {
		return ""
	}
	return n.Name
}

func (n *NetconfNode) node() {}

// OpenflowNode is a switch that connected to the controller over OpenFlow.
// Its name is the inventory id, e.g. "openflow:1".
type OpenflowNode struct {
	Name string
}

// NewOpenflowNode returns an OpenflowNode with the given inventory id
func NewOpenflowNode(name string) (*OpenflowNode, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Required("node name")
	}
	return &OpenflowNode{Name: name}, nil
}

// NodeName returns the node id
func (n *OpenflowNode) NodeName() string {
	if n == nil {
		return ""
	}
	return n.Name
}

func (n *OpenflowNode) node() {}

// XML namespaces of the controller config subsystem
const (
	controllerNS      = "urn:opendaylight:params:xml:ns:yang:controller"
	configNS          = controllerNS + ":config"
	netconfConnNS     = controllerNS + ":md:sal:connector:netconf"
	nettyNS           = controllerNS + ":netty"
	bindingNS         = controllerNS + ":md:sal:binding"
	domNS             = controllerNS + ":md:sal:dom"
	netconfClientNS   = controllerNS + ":config:netconf"
	threadpoolNS      = controllerNS + ":threadpool"
	connectorTypeName = "sal-netconf-connector"
)

// prefixedType is a <type xmlns:prefix="...">prefix:name</type> element
type prefixedType struct {
	XMLName xml.Name `xml:"type"`
	Prefix  string   `xml:"xmlns:prefix,attr"`
	Value   string   `xml:",chardata"`
}

// dependency is one of the connector's service references
type dependency struct {
	XMLName xml.Name
	Type    prefixedType
	Name    string `xml:"name"`
}

// nsValue is a simple element carrying its own default namespace
type nsValue struct {
	XMLNS string `xml:"xmlns,attr"`
	Value string `xml:",chardata"`
}

type connectorModule struct {
	XMLName            xml.Name     `xml:"module"`
	XMLNS              string       `xml:"xmlns,attr"`
	Type               prefixedType `xml:"type"`
	Name               string       `xml:"name"`
	Address            nsValue      `xml:"address"`
	Port               nsValue      `xml:"port"`
	Username           nsValue      `xml:"username"`
	Password           nsValue      `xml:"password"`
	TCPOnly            nsValue      `xml:"tcp-only"`
	EventExecutor      dependency   `xml:"event-executor"`
	BindingRegistry    dependency   `xml:"binding-registry"`
	DomRegistry        dependency   `xml:"dom-registry"`
	ClientDispatcher   dependency   `xml:"client-dispatcher"`
	ProcessingExecutor dependency   `xml:"processing-executor"`
}

func newDependency(element, prefixNS, typeName, name string) dependency {
	return dependency{
		XMLName: xml.Name{Space: netconfConnNS, Local: element},
		Type:    prefixedType{Prefix: prefixNS, Value: "prefix:" + typeName},
		Name:    name,
	}
}

// MountXML returns the config:modules document that makes the controller
// open a NETCONF session to the node.
func (n *NetconfNode) MountXML() ([]byte, error) {
	doc := connectorModule{
		XMLNS:              configNS,
		Type:               prefixedType{Prefix: netconfConnNS, Value: "prefix:" + connectorTypeName},
		Name:               n.Name,
		Address:            nsValue{XMLNS: netconfConnNS, Value: n.Address},
		Port:               nsValue{XMLNS: netconfConnNS, Value: fmt.Sprint(n.Port)},
		Username:           nsValue{XMLNS: netconfConnNS, Value: n.Username},
		Password:           nsValue{XMLNS: netconfConnNS, Value: n.Password},
		TCPOnly:            nsValue{XMLNS: netconfConnNS, Value: fmt.Sprint(n.TCPOnly)},
		EventExecutor:      newDependency("event-executor", nettyNS, "netty-event-executor", "global-event-executor"),
		BindingRegistry:    newDependency("binding-registry", bindingNS, "binding-broker-osgi-registry", "binding-osgi-broker"),
		DomRegistry:        newDependency("dom-registry", domNS, "dom-broker-osgi-registry", "dom-broker"),
		ClientDispatcher:   newDependency("client-dispatcher", netconfClientNS, "netconf-client-dispatcher", "global-netconf-dispatcher"),
		ProcessingExecutor: newDependency("processing-executor", threadpoolNS, "threadpool", "global-netconf-processing-executor"),
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode mount document for node %q: %w", n.Name, err)
	}
	return append([]byte(xml.Header), out...), nil
}
