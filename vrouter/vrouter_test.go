// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package vrouter

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/netascode/go-bvc"
	"github.com/netascode/go-bvc/internal/fakectl"
)

const (
	mountPath      = "/restconf/config/opendaylight-inventory:nodes/node/vRouter/yang-ext:mount"
	firewallsPath  = mountPath + "/vyatta-security:security/vyatta-security-firewall:firewall"
	interfacesPath = mountPath + "/vyatta-interfaces:interfaces"
	dataplanePath  = interfacesPath + "/vyatta-interfaces-dataplane:dataplane"
)

const interfacesDoc = `{"interfaces":{
	"vyatta-interfaces-dataplane:dataplane":[
		{"tagnode":"dp0p160p1","address":["dhcp"]},
		{"tagnode":"dp0s2","address":["10.0.0.1/24"]}
	],
	"vyatta-interfaces-loopback:loopback":[
		{"tagnode":"lo"}
	]
}}`

func newTestRouter(t *testing.T) (*VRouter5600, *fakectl.Server) {
	t.Helper()
	srv := fakectl.New(t)
	ctrl, err := bvc.NewController(srv.Host(),
		bvc.Username(fakectl.Username),
		bvc.Password(fakectl.Password),
		bvc.Port(srv.Port()))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	r, err := NewVRouter5600(ctrl, bvc.NetconfNodeConfig{
		Name:     "vRouter",
		Address:  "172.22.17.108",
		Port:     830,
		Username: "vyatta",
		Password: "vyatta",
	})
	if err != nil {
		t.Fatalf("NewVRouter5600() error = %v", err)
	}
	return r, srv
}

func TestNewVRouter5600(t *testing.T) {
	if _, err := NewVRouter5600(nil, bvc.NetconfNodeConfig{}); err == nil {
		t.Error("NewVRouter5600(nil) error = nil, want error")
	}

	r, _ := newTestRouter(t)
	var n bvc.Node = r
	if n.NodeName() != "vRouter" {
		t.Errorf("NodeName() = %q, want %q", n.NodeName(), "vRouter")
	}
	doc, err := r.MountXML()
	if err != nil || len(doc) == 0 {
		t.Errorf("MountXML() = %d bytes, %v", len(doc), err)
	}

	if _, err := NewVRouter5600(r.ctrl, bvc.NetconfNodeConfig{Name: "vRouter"}); err == nil {
		t.Error("NewVRouter5600() with incomplete config error = nil, want error")
	}
}

func TestMounted(t *testing.T) {
	r, srv := newTestRouter(t)
	if _, err := Mounted(nil, "vRouter"); err == nil {
		t.Error("Mounted(nil) error = nil, want error")
	}
	if _, err := Mounted(r.ctrl, ""); err == nil {
		t.Error("Mounted(\"\") error = nil, want error")
	}

	m, err := Mounted(r.ctrl, "vRouter")
	if err != nil {
		t.Fatalf("Mounted() error = %v", err)
	}
	srv.Handle(http.MethodGet, firewallsPath, http.StatusOK, `{"vyatta-security-firewall:firewall":{}}`)
	res, err := m.FirewallsCfg(context.Background())
	if err != nil {
		t.Fatalf("FirewallsCfg() error = %v", err)
	}
	if !res.OK() {
		t.Errorf("Status = %v, want OK", res.Status)
	}
}

func TestCfg(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet, mountPath, http.StatusOK, `{"vyatta-system:system":{"host-name":"vyatta"}}`)

	res, err := r.Cfg(context.Background())
	if err != nil {
		t.Fatalf("Cfg() error = %v", err)
	}
	if got := res.Value.Get("vyatta-system:system.host-name").String(); got != "vyatta" {
		t.Errorf("host-name = %q, want %q", got, "vyatta")
	}
}

func TestFirewallsCfg(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet, firewallsPath, http.StatusOK,
		`{"vyatta-security-firewall:firewall":{"name":[{"tagnode":"FW1"}]}}`)
	srv.Handle(http.MethodGet, firewallsPath+"/name/FW1", http.StatusOK,
		`{"name":[{"tagnode":"FW1","rule":[{"tagnode":30,"action":"accept"}]}]}`)
	ctx := context.Background()

	all, err := r.FirewallsCfg(ctx)
	if err != nil {
		t.Fatalf("FirewallsCfg() error = %v", err)
	}
	if got := all.Value.Get("vyatta-security-firewall:firewall.name.0.tagnode").String(); got != "FW1" {
		t.Errorf("tagnode = %q, want %q", got, "FW1")
	}

	one, err := r.FirewallInstanceCfg(ctx, "FW1")
	if err != nil {
		t.Fatalf("FirewallInstanceCfg() error = %v", err)
	}
	if got := one.Value.Get("name.0.rule.0.action").String(); got != "accept" {
		t.Errorf("action = %q, want %q", got, "accept")
	}

	missing, err := r.FirewallInstanceCfg(ctx, "FW9")
	if err != nil {
		t.Fatalf("FirewallInstanceCfg() error = %v", err)
	}
	if missing.Status != bvc.StatusHTTPError {
		t.Errorf("missing instance Status = %v, want %v", missing.Status, bvc.StatusHTTPError)
	}
}

func TestCreateFirewallInstance(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodPost, mountPath, http.StatusNoContent, "")

	rules, _ := NewRules("FW1")
	rule, _ := NewRule(30, "accept", "172.22.17.108", "")
	if err := rules.AddRule(rule); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	fw, _ := NewFirewall(rules)

	res, err := r.CreateFirewallInstance(context.Background(), fw)
	if err != nil {
		t.Fatalf("CreateFirewallInstance() error = %v", err)
	}
	if res.Status != bvc.StatusOK {
		t.Fatalf("Status = %v, want %v", res.Status, bvc.StatusOK)
	}

	req, _ := srv.LastRequest()
	if req.Method != http.MethodPost || req.Path != mountPath {
		t.Errorf("request = %s %s, want POST %s", req.Method, req.Path, mountPath)
	}
	if got := req.Header.Get("Content-Type"); got != bvc.MediaTypeYangDataJSON {
		t.Errorf("Content-Type = %q, want %q", got, bvc.MediaTypeYangDataJSON)
	}
	body := gjson.ParseBytes(req.Body)
	if got := body.Get("vyatta-security:security.vyatta-security-firewall:firewall.name.0.rule.0.tagnode").Int(); got != 30 {
		t.Errorf("rule tagnode = %d, want 30", got)
	}

	if _, err := r.CreateFirewallInstance(context.Background(), nil); err == nil {
		t.Error("CreateFirewallInstance(nil) error = nil, want error")
	}
}

func TestCreateFirewallInstance_Exists(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodPost, mountPath, http.StatusConflict,
		`{"errors":{"error":[{"error-tag":"data-exists"}]}}`)

	rules, _ := NewRules("FW1")
	fw, _ := NewFirewall(rules)
	res, err := r.CreateFirewallInstance(context.Background(), fw)
	if err != nil {
		t.Fatalf("CreateFirewallInstance() error = %v", err)
	}
	if res.Status != bvc.StatusHTTPError || res.Response.StatusCode != http.StatusConflict {
		t.Errorf("Status = %v, want HTTP 409", res.Status)
	}
}

func TestDeleteFirewallInstance(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodDelete, firewallsPath+"/name/FW1", http.StatusOK, "")

	res, err := r.DeleteFirewallInstance(context.Background(), "FW1")
	if err != nil {
		t.Fatalf("DeleteFirewallInstance() error = %v", err)
	}
	if res.Status != bvc.StatusOK {
		t.Errorf("Status = %v, want %v", res.Status, bvc.StatusOK)
	}
	if _, err := r.DeleteFirewallInstance(context.Background(), ""); err == nil {
		t.Error("DeleteFirewallInstance(\"\") error = nil, want error")
	}
}

func TestInterfaceLists(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet, interfacesPath, http.StatusOK, interfacesDoc)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(context.Context) (bvc.Res[[]string], error)
		want []string
	}{
		{"DataplaneInterfacesList", r.DataplaneInterfacesList, []string{"dp0p160p1", "dp0s2"}},
		{"LoopbackInterfacesList", r.LoopbackInterfacesList, []string{"lo"}},
		{"InterfacesList", r.InterfacesList, []string{"dp0p160p1", "dp0s2", "lo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call(ctx)
			if err != nil {
				t.Fatalf("%s() error = %v", tt.name, err)
			}
			if !reflect.DeepEqual(res.Value, tt.want) {
				t.Errorf("%s() = %v, want %v", tt.name, res.Value, tt.want)
			}
			if res.Operation != tt.name {
				t.Errorf("Operation = %q, want %q", res.Operation, tt.name)
			}
		})
	}
}

func TestInterfaceCfgs(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet, interfacesPath, http.StatusOK, interfacesDoc)
	srv.Handle(http.MethodGet, dataplanePath+"/dp0s2", http.StatusOK,
		`{"vyatta-interfaces-dataplane:dataplane":[{"tagnode":"dp0s2"}]}`)
	srv.Handle(http.MethodGet, interfacesPath+"/vyatta-interfaces-loopback:loopback/lo", http.StatusOK,
		`{"vyatta-interfaces-loopback:loopback":[{"tagnode":"lo"}]}`)
	ctx := context.Background()

	dp, err := r.DataplaneInterfacesCfg(ctx)
	if err != nil {
		t.Fatalf("DataplaneInterfacesCfg() error = %v", err)
	}
	if got := dp.Value.Get("#").Int(); got != 2 {
		t.Errorf("dataplane count = %d, want 2", got)
	}

	lo, err := r.LoopbackInterfacesCfg(ctx)
	if err != nil {
		t.Fatalf("LoopbackInterfacesCfg() error = %v", err)
	}
	if got := lo.Value.Get("0.tagnode").String(); got != "lo" {
		t.Errorf("loopback tagnode = %q, want %q", got, "lo")
	}

	all, err := r.InterfacesCfg(ctx)
	if err != nil {
		t.Fatalf("InterfacesCfg() error = %v", err)
	}
	if !all.Value.Get("interfaces").IsObject() {
		t.Errorf("InterfacesCfg() = %s, want the interfaces document", all.Value.Raw)
	}

	one, err := r.DataplaneInterfaceCfg(ctx, "dp0s2")
	if err != nil {
		t.Fatalf("DataplaneInterfaceCfg() error = %v", err)
	}
	if got := one.Value.Get("vyatta-interfaces-dataplane:dataplane.0.tagnode").String(); got != "dp0s2" {
		t.Errorf("tagnode = %q, want %q", got, "dp0s2")
	}

	loOne, err := r.LoopbackInterfaceCfg(ctx, "lo")
	if err != nil {
		t.Fatalf("LoopbackInterfaceCfg() error = %v", err)
	}
	if !loOne.OK() {
		t.Errorf("LoopbackInterfaceCfg() Status = %v, want OK", loOne.Status)
	}
}

func TestInterfaces_NoKind(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet, interfacesPath, http.StatusOK,
		`{"interfaces":{"vyatta-interfaces-dataplane:dataplane":[{"tagnode":"dp0s2"}]}}`)

	res, err := r.LoopbackInterfacesList(context.Background())
	if err != nil {
		t.Fatalf("LoopbackInterfacesList() error = %v", err)
	}
	if res.Status != bvc.StatusDataNotFound {
		t.Errorf("Status = %v, want %v", res.Status, bvc.StatusDataNotFound)
	}
}

func TestSetDataplaneInterfaceFirewall(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodPut, dataplanePath+"/dp0p1p7", http.StatusOK, "")
	ctx := context.Background()

	res, err := r.SetDataplaneInterfaceFirewall(ctx, "dp0p1p7", "FW1", "")
	if err != nil {
		t.Fatalf("SetDataplaneInterfaceFirewall() error = %v", err)
	}
	if res.Status != bvc.StatusOK {
		t.Errorf("Status = %v, want %v", res.Status, bvc.StatusOK)
	}
	req, _ := srv.LastRequest()
	body := gjson.ParseBytes(req.Body)
	if got := body.Get("vyatta-interfaces-dataplane:dataplane.vyatta-security-firewall:firewall.in.0").String(); got != "FW1" {
		t.Errorf("in = %q, want %q", got, "FW1")
	}

	before := len(srv.Requests())
	_, err = r.SetDataplaneInterfaceFirewall(ctx, "dp0p1p7", "", "")
	var verr *bvc.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("SetDataplaneInterfaceFirewall() without instances error = %v, want ValidationError", err)
	}
	if len(srv.Requests()) != before {
		t.Error("request sent for an invalid binding")
	}
}

func TestDeleteDataplaneInterfaceFirewall(t *testing.T) {
	r, srv := newTestRouter(t)
	path := dataplanePath + "/dp0p1p7/vyatta-security-firewall:firewall"
	srv.Handle(http.MethodDelete, path, http.StatusOK, "")

	res, err := r.DeleteDataplaneInterfaceFirewall(context.Background(), "dp0p1p7")
	if err != nil {
		t.Fatalf("DeleteDataplaneInterfaceFirewall() error = %v", err)
	}
	if res.Status != bvc.StatusOK {
		t.Errorf("Status = %v, want %v", res.Status, bvc.StatusOK)
	}
	req, _ := srv.LastRequest()
	if req.Path != path {
		t.Errorf("path = %q, want %q", req.Path, path)
	}
}

func TestSchemasDelegate(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.Handle(http.MethodGet,
		"/restconf/operational/opendaylight-inventory:nodes/node/vRouter/yang-ext:mount/ietf-netconf-monitoring:netconf-state/schemas",
		http.StatusOK, `{"schemas":{"schema":[{"identifier":"vyatta-security"}]}}`)

	res, err := r.Schemas(context.Background())
	if err != nil {
		t.Fatalf("Schemas() error = %v", err)
	}
	if got := res.Value.Get("0.identifier").String(); got != "vyatta-security" {
		t.Errorf("identifier = %q, want %q", got, "vyatta-security")
	}
}
