// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package vrouter manages Brocade Vyatta 5600 routers mounted on the
// controller through NETCONF: configuration reads, firewall instances and
// their binding to dataplane interfaces.
package vrouter

import (
	"context"
	"net/http"

	"github.com/netascode/go-bvc"
	"github.com/tidwall/gjson"
)

// YANG containers of the router's data tree
const (
	securityKey   = "vyatta-security:security"
	firewallKey   = "vyatta-security-firewall:firewall"
	interfacesKey = "vyatta-interfaces:interfaces"
	dataplaneKey  = "vyatta-interfaces-dataplane:dataplane"
	loopbackKey   = "vyatta-interfaces-loopback:loopback"
)

// VRouter5600 is a Vyatta 5600 router mounted on the controller
type VRouter5600 struct {
	bvc.NetconfNode

	ctrl *bvc.Controller
}

// NewVRouter5600 validates cfg and returns the router. The router still
// has to be mounted with Controller.AddNetconfNode before its data tree is
// reachable.
func NewVRouter5600(ctrl *bvc.Controller, cfg bvc.NetconfNodeConfig) (*VRouter5600, error) {
	if ctrl == nil {
		return nil, bvc.Required("controller")
	}
	n, err := bvc.NewNetconfNode(cfg)
	if err != nil {
		return nil, err
	}
	return &VRouter5600{NetconfNode: *n, ctrl: ctrl}, nil
}

// Mounted returns a handle to a router that is already mounted under name.
// Its NETCONF address and credentials are unknown, so it cannot be mounted
// again through the handle.
func Mounted(ctrl *bvc.Controller, name string) (*VRouter5600, error) {
	if ctrl == nil {
		return nil, bvc.Required("controller")
	}
	if name == "" {
		return nil, bvc.Required("node name")
	}
	return &VRouter5600{NetconfNode: bvc.NetconfNode{Name: name}, ctrl: ctrl}, nil
}

func (r *VRouter5600) client() *bvc.Client {
	return r.ctrl.Client()
}

func (r *VRouter5600) mountPath(segments ...string) string {
	return bvc.JoinPath(r.ctrl.MountConfigURI(r), segments...)
}

func (r *VRouter5600) firewallPath(name string) string {
	return r.mountPath(securityKey, firewallKey, "name", name)
}

// Schemas lists the YANG schemas the router advertises
func (r *VRouter5600) Schemas(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return r.ctrl.Schemas(ctx, r.Name)
}

// Schema downloads the YANG text of one schema
func (r *VRouter5600) Schema(ctx context.Context, id, version string) (bvc.Res[string], error) {
	return r.ctrl.Schema(ctx, r.Name, id, version)
}

// Cfg returns the router's complete configuration
func (r *VRouter5600) Cfg(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return bvc.Fetch(ctx, r.client(), "Cfg", r.ctrl.MountConfigURI(r), bvc.WholeBody)
}

// FirewallsCfg returns the configuration of all firewall instances
func (r *VRouter5600) FirewallsCfg(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return bvc.Fetch(ctx, r.client(), "FirewallsCfg", r.mountPath(securityKey, firewallKey), bvc.WholeBody)
}

// FirewallInstanceCfg returns the configuration of one firewall instance
func (r *VRouter5600) FirewallInstanceCfg(ctx context.Context, name string) (bvc.Res[gjson.Result], error) {
	if name == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("firewall name")
	}
	return bvc.Fetch(ctx, r.client(), "FirewallInstanceCfg", r.firewallPath(name), bvc.WholeBody)
}

// CreateFirewallInstance creates a firewall instance with its rules
func (r *VRouter5600) CreateFirewallInstance(ctx context.Context, fw *Firewall) (bvc.Res[gjson.Result], error) {
	if fw == nil || fw.Rules == nil {
		return bvc.Res[gjson.Result]{}, bvc.Required("firewall")
	}
	doc, err := fw.JSON()
	if err != nil {
		return bvc.Res[gjson.Result]{}, err
	}
	r.client().Logger().Info(ctx, "Creating firewall instance", "node", r.Name, "firewall", fw.Name(), "rules", len(fw.Rules.Rules))
	return bvc.Write(ctx, r.client(), "CreateFirewallInstance", http.MethodPost, r.ctrl.MountConfigURI(r), []byte(doc),
		bvc.Header("Content-Type", bvc.MediaTypeYangDataJSON)), nil
}

// DeleteFirewallInstance removes a firewall instance
func (r *VRouter5600) DeleteFirewallInstance(ctx context.Context, name string) (bvc.Res[gjson.Result], error) {
	if name == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("firewall name")
	}
	r.client().Logger().Info(ctx, "Deleting firewall instance", "node", r.Name, "firewall", name)
	return bvc.Write(ctx, r.client(), "DeleteFirewallInstance", http.MethodDelete, r.firewallPath(name), nil), nil
}

// interfaces reads the interfaces container and projects it with fn
func interfaces[T any](ctx context.Context, r *VRouter5600, op string, fn func(ifs gjson.Result) bvc.Res[T]) (bvc.Res[T], error) {
	return bvc.Fetch(ctx, r.client(), op, r.mountPath(interfacesKey), func(body gjson.Result) bvc.Res[T] {
		ifs := body.Get("interfaces")
		if !ifs.IsObject() {
			return bvc.NotFound[T]()
		}
		return fn(ifs)
	})
}

func tagnodes(list gjson.Result) []string {
	names := []string{}
	for _, i := range list.Array() {
		names = append(names, i.Get("tagnode").String())
	}
	return names
}

func kindList(key string) func(gjson.Result) bvc.Res[[]string] {
	return func(ifs gjson.Result) bvc.Res[[]string] {
		list := ifs.Get(key)
		if !list.Exists() {
			return bvc.NotFound[[]string]()
		}
		return bvc.Found(tagnodes(list))
	}
}

func kindCfg(key string) func(gjson.Result) bvc.Res[gjson.Result] {
	return func(ifs gjson.Result) bvc.Res[gjson.Result] {
		list := ifs.Get(key)
		if !list.Exists() {
			return bvc.NotFound[gjson.Result]()
		}
		return bvc.Found(list)
	}
}

// DataplaneInterfacesList returns the names of the dataplane interfaces
func (r *VRouter5600) DataplaneInterfacesList(ctx context.Context) (bvc.Res[[]string], error) {
	return interfaces(ctx, r, "DataplaneInterfacesList", kindList(dataplaneKey))
}

// DataplaneInterfacesCfg returns the configuration of all dataplane interfaces
func (r *VRouter5600) DataplaneInterfacesCfg(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return interfaces(ctx, r, "DataplaneInterfacesCfg", kindCfg(dataplaneKey))
}

// DataplaneInterfaceCfg returns the configuration of one dataplane interface
func (r *VRouter5600) DataplaneInterfaceCfg(ctx context.Context, name string) (bvc.Res[gjson.Result], error) {
	if name == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("interface name")
	}
	return bvc.Fetch(ctx, r.client(), "DataplaneInterfaceCfg", r.mountPath(interfacesKey, dataplaneKey, name), bvc.WholeBody)
}

// LoopbackInterfacesList returns the names of the loopback interfaces
func (r *VRouter5600) LoopbackInterfacesList(ctx context.Context) (bvc.Res[[]string], error) {
	return interfaces(ctx, r, "LoopbackInterfacesList", kindList(loopbackKey))
}

// LoopbackInterfacesCfg returns the configuration of all loopback interfaces
func (r *VRouter5600) LoopbackInterfacesCfg(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return interfaces(ctx, r, "LoopbackInterfacesCfg", kindCfg(loopbackKey))
}

// LoopbackInterfaceCfg returns the configuration of one loopback interface
func (r *VRouter5600) LoopbackInterfaceCfg(ctx context.Context, name string) (bvc.Res[gjson.Result], error) {
	if name == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("interface name")
	}
	return bvc.Fetch(ctx, r.client(), "LoopbackInterfaceCfg", r.mountPath(interfacesKey, loopbackKey, name), bvc.WholeBody)
}

// InterfacesList returns the names of the interfaces of every kind
func (r *VRouter5600) InterfacesList(ctx context.Context) (bvc.Res[[]string], error) {
	return interfaces(ctx, r, "InterfacesList", func(ifs gjson.Result) bvc.Res[[]string] {
		names := []string{}
		ifs.ForEach(func(_, list gjson.Result) bool {
			names = append(names, tagnodes(list)...)
			return true
		})
		return bvc.Found(names)
	})
}

// InterfacesCfg returns the complete interfaces configuration
func (r *VRouter5600) InterfacesCfg(ctx context.Context) (bvc.Res[gjson.Result], error) {
	return bvc.Fetch(ctx, r.client(), "InterfacesCfg", r.mountPath(interfacesKey), func(body gjson.Result) bvc.Res[gjson.Result] {
		if !body.Get("interfaces").IsObject() {
			return bvc.NotFound[gjson.Result]()
		}
		return bvc.Found(body)
	})
}

// SetDataplaneInterfaceFirewall applies firewall instances to the inbound
// and outbound traffic of a dataplane interface. At least one of in and out
// is required.
func (r *VRouter5600) SetDataplaneInterfaceFirewall(ctx context.Context, ifName, in, out string) (bvc.Res[gjson.Result], error) {
	dpf, err := NewDataplaneFirewall(ifName, in, out)
	if err != nil {
		return bvc.Res[gjson.Result]{}, err
	}
	doc, err := dpf.JSON()
	if err != nil {
		return bvc.Res[gjson.Result]{}, err
	}
	r.client().Logger().Info(ctx, "Binding firewall to interface", "node", r.Name, "interface", ifName, "in", in, "out", out)
	return bvc.Write(ctx, r.client(), "SetDataplaneInterfaceFirewall", http.MethodPut,
		r.mountPath(interfacesKey, dataplaneKey, ifName), []byte(doc),
		bvc.Header("Content-Type", bvc.MediaTypeYangDataJSON)), nil
}

// DeleteDataplaneInterfaceFirewall removes all firewall bindings from a
// dataplane interface.
func (r *VRouter5600) DeleteDataplaneInterfaceFirewall(ctx context.Context, ifName string) (bvc.Res[gjson.Result], error) {
	if ifName == "" {
		return bvc.Res[gjson.Result]{}, bvc.Required("interface name")
	}
	r.client().Logger().Info(ctx, "Unbinding firewall from interface", "node", r.Name, "interface", ifName)
	return bvc.Write(ctx, r.client(), "DeleteDataplaneInterfaceFirewall", http.MethodDelete,
		r.mountPath(interfacesKey, dataplaneKey, ifName, firewallKey), nil), nil
}
