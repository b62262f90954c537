// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import (
	"fmt"

	"github.com/netascode/go-bvc"
)

// Action is one OpenFlow action inside an apply-actions instruction.
//
// The set of actions is closed; every variant below is a plain struct whose
// Order field fixes its position in the instruction's action list.
type Action interface {
	isAction()
}

// OutputAction forwards the packet to a port. Port may be a port number or
// a reserved name such as "CONTROLLER", "FLOOD" or "INPORT".
type OutputAction struct {
	Order     int
	Port      string
	MaxLength *uint16
}

// GroupAction sends the packet to a group
type GroupAction struct {
	Order   int
	Group   string
	GroupID *uint32
}

// SetQueueAction sets the queue id for the output port
type SetQueueAction struct {
	Order   int
	Queue   string
	QueueID *uint32
}

// SetNwDstAction rewrites the IP destination address (CIDR notation)
type SetNwDstAction struct {
	Order   int
	Address string
}

// SetNwSrcAction rewrites the IP source address (CIDR notation)
type SetNwSrcAction struct {
	Order   int
	Address string
}

// SetDlDstAction rewrites the Ethernet destination address
type SetDlDstAction struct {
	Order   int
	Address string
}

// SetDlSrcAction rewrites the Ethernet source address
type SetDlSrcAction struct {
	Order   int
	Address string
}

// SetNwTTLAction sets the IP TTL
type SetNwTTLAction struct {
	Order int
	TTL   *uint8
}

// SetMplsTTLAction sets the MPLS TTL
type SetMplsTTLAction struct {
	Order int
	TTL   *uint8
}

// SetTpDstAction rewrites the TCP/UDP destination port
type SetTpDstAction struct {
	Order int
	Port  *uint16
}

// SetTpSrcAction rewrites the TCP/UDP source port
type SetTpSrcAction struct {
	Order int
	Port  *uint16
}

// SetVlanIDAction sets the 802.1Q VLAN id
type SetVlanIDAction struct {
	Order  int
	VlanID *uint16
}

// SetVlanPCPAction sets the 802.1Q priority
type SetVlanPCPAction struct {
	Order int
	PCP   *uint8
}

// SetVlanCFIAction sets the 802.1Q CFI bit
type SetVlanCFIAction struct {
	Order int
	CFI   *uint8
}

// PushMplsAction pushes an MPLS shim header
type PushMplsAction struct {
	Order        int
	EthernetType *uint16
}

// PopMplsAction pops the outermost MPLS shim header
type PopMplsAction struct {
	Order        int
	EthernetType *uint16
}

// PushVlanAction pushes an 802.1Q header. All fields are optional.
type PushVlanAction struct {
	Order        int
	EthernetType *uint16
	Tag          *uint16
	PCP          *uint8
	CFI          *uint8
	VlanID       *uint16
}

// PushPbbAction pushes a PBB service instance header
type PushPbbAction struct {
	Order        int
	EthernetType *uint16
}

// SetFieldAction sets header fields through OXM. Only the VLAN id and the
// MPLS label are supported.
type SetFieldAction struct {
	Order     int
	VlanID    *uint16
	MplsLabel *uint32
}

// Actions without arguments

// PopVlanAction pops the outermost VLAN header
type PopVlanAction struct{ Order int }

// PopPbbAction pops the outermost PBB header
type PopPbbAction struct{ Order int }

// DropAction drops the packet
type DropAction struct{ Order int }

// FloodAction floods the packet on all ports except the ingress port
type FloodAction struct{ Order int }

// FloodAllAction sends the packet out on all ports including the ingress port
type FloodAllAction struct{ Order int }

// HwPathAction hands the packet to the hardware pipeline
type HwPathAction struct{ Order int }

// SwPathAction hands the packet to the software pipeline
type SwPathAction struct{ Order int }

// LoopbackAction sends the packet back out of the ingress port
type LoopbackAction struct{ Order int }

// CopyTTLInAction copies the TTL from the outer to the next-to-outer header
type CopyTTLInAction struct{ Order int }

// CopyTTLOutAction copies the TTL from the next-to-outer to the outer header
type CopyTTLOutAction struct{ Order int }

// DecMplsTTLAction decrements the MPLS TTL
type DecMplsTTLAction struct{ Order int }

// DecNwTTLAction decrements the IP TTL
type DecNwTTLAction struct{ Order int }

// StripVlanAction removes the VLAN header
type StripVlanAction struct{ Order int }

func (*OutputAction) isAction()     {}
func (*GroupAction) isAction()      {}
func (*SetQueueAction) isAction()   {}
func (*SetNwDstAction) isAction()   {}
func (*SetNwSrcAction) isAction()   {}
func (*SetDlDstAction) isAction()   {}
func (*SetDlSrcAction) isAction()   {}
func (*SetNwTTLAction) isAction()   {}
func (*SetMplsTTLAction) isAction() {}
func (*SetTpDstAction) isAction()   {}
func (*SetTpSrcAction) isAction()   {}
func (*SetVlanIDAction) isAction()  {}
func (*SetVlanPCPAction) isAction() {}
func (*SetVlanCFIAction) isAction() {}
func (*PushMplsAction) isAction()   {}
func (*PopMplsAction) isAction()    {}
func (*PushVlanAction) isAction()   {}
func (*PushPbbAction) isAction()    {}
func (*SetFieldAction) isAction()   {}
func (*PopVlanAction) isAction()    {}
func (*PopPbbAction) isAction()     {}
func (*DropAction) isAction()       {}
func (*FloodAction) isAction()      {}
func (*FloodAllAction) isAction()   {}
func (*HwPathAction) isAction()     {}
func (*SwPathAction) isAction()     {}
func (*LoopbackAction) isAction()   {}
func (*CopyTTLInAction) isAction()  {}
func (*CopyTTLOutAction) isAction() {}
func (*DecMplsTTLAction) isAction() {}
func (*DecNwTTLAction) isAction()   {}
func (*StripVlanAction) isAction()  {}

// encodedAction is the wire form of one action before it is wrapped with
// its order: the container key and the container content.
type encodedAction struct {
	order int
	key   string
	body  bvc.Body
}

// encodeAction validates a and returns its wire form
func encodeAction(a Action) (encodedAction, error) {
	var e encodedAction
	b := bvc.Body{}

	switch a := a.(type) {
	case *OutputAction:
		if a.Port == "" {
			return e, bvc.Required("output port")
		}
		b = setOpt(b, "max-length", a.MaxLength).Set("output-node-connector", a.Port)
		e = encodedAction{a.Order, "output-action", b}
	case *GroupAction:
		if a.Group == "" {
			return e, bvc.Required("group")
		}
		if a.GroupID == nil {
			return e, bvc.Required("group id")
		}
		e = encodedAction{a.Order, "group-action", b.Set("group", a.Group).Set("group-id", *a.GroupID)}
	case *SetQueueAction:
		if a.Queue == "" {
			return e, bvc.Required("queue")
		}
		if a.QueueID == nil {
			return e, bvc.Required("queue id")
		}
		e = encodedAction{a.Order, "set-queue-action", b.Set("queue", a.Queue).Set("queue-id", *a.QueueID)}
	case *SetNwDstAction:
		if a.Address == "" {
			return e, bvc.Required("IP address")
		}
		e = encodedAction{a.Order, "set-nw-dst-action", b.Set("address", a.Address)}
	case *SetNwSrcAction:
		if a.Address == "" {
			return e, bvc.Required("IP address")
		}
		e = encodedAction{a.Order, "set-nw-src-action", b.Set("address", a.Address)}
	case *SetDlDstAction:
		if a.Address == "" {
			return e, bvc.Required("MAC address")
		}
		e = encodedAction{a.Order, "set-dl-dst-action", b.Set("address", a.Address)}
	case *SetDlSrcAction:
		if a.Address == "" {
			return e, bvc.Required("MAC address")
		}
		e = encodedAction{a.Order, "set-dl-src-action", b.Set("address", a.Address)}
	case *SetNwTTLAction:
		if a.TTL == nil {
			return e, bvc.Required("IP TTL")
		}
		e = encodedAction{a.Order, "set-nw-ttl-action", b.Set("nw-ttl", *a.TTL)}
	case *SetMplsTTLAction:
		if a.TTL == nil {
			return e, bvc.Required("MPLS TTL")
		}
		e = encodedAction{a.Order, "set-mpls-ttl-action", b.Set("mpls-ttl", *a.TTL)}
	case *SetTpDstAction:
		if a.Port == nil {
			return e, bvc.Required("port")
		}
		e = encodedAction{a.Order, "set-tp-dst-action", b.Set("port", *a.Port)}
	case *SetTpSrcAction:
		if a.Port == nil {
			return e, bvc.Required("port")
		}
		e = encodedAction{a.Order, "set-tp-src-action", b.Set("port", *a.Port)}
	case *SetVlanIDAction:
		if a.VlanID == nil {
			return e, bvc.Required("VLAN id")
		}
		e = encodedAction{a.Order, "set-vlan-id-action", b.Set("vlan-id", *a.VlanID)}
	case *SetVlanPCPAction:
		if a.PCP == nil {
			return e, bvc.Required("VLAN PCP")
		}
		e = encodedAction{a.Order, "set-vlan-pcp-action", b.Set("vlan-pcp", *a.PCP)}
	case *SetVlanCFIAction:
		if a.CFI == nil {
			return e, bvc.Required("VLAN CFI")
		}
		e = encodedAction{a.Order, "set-vlan-cfi-action", b.Set("vlan-cfi", *a.CFI)}
	case *PushMplsAction:
		if a.EthernetType == nil {
			return e, bvc.Required("ethernet type")
		}
		e = encodedAction{a.Order, "push-mpls-action", b.Set("ethernet-type", *a.EthernetType)}
	case *PopMplsAction:
		if a.EthernetType == nil {
			return e, bvc.Required("ethernet type")
		}
		e = encodedAction{a.Order, "pop-mpls-action", b.Set("ethernet-type", *a.EthernetType)}
	case *PushVlanAction:
		b = setOpt(b, "ethernet-type", a.EthernetType)
		b = setOpt(b, "tag", a.Tag)
		b = setOpt(b, "pcp", a.PCP)
		b = setOpt(b, "cfi", a.CFI)
		b = setOpt(b, "vlan-id", a.VlanID)
		e = encodedAction{a.Order, "push-vlan-action", b}
	case *PushPbbAction:
		e = encodedAction{a.Order, "push-pbb-action", setOpt(b, "ethernet-type", a.EthernetType)}
	case *SetFieldAction:
		if a.VlanID != nil {
			b = b.Set("vlan-match.vlan-id.vlan-id", *a.VlanID).
				Set("vlan-match.vlan-id.vlan-id-present", true)
		}
		b = setOpt(b, "protocol-match-fields.mpls-label", a.MplsLabel)
		e = encodedAction{a.Order, "set-field", b}
	case *PopVlanAction:
		e = encodedAction{a.Order, "pop-vlan-action", b}
	case *PopPbbAction:
		e = encodedAction{a.Order, "pop-pbb-action", b}
	case *DropAction:
		e = encodedAction{a.Order, "drop-action", b}
	case *FloodAction:
		e = encodedAction{a.Order, "flood-action", b}
	case *FloodAllAction:
		e = encodedAction{a.Order, "flood-all-action", b}
	case *HwPathAction:
		e = encodedAction{a.Order, "hw-path-action", b}
	case *SwPathAction:
		e = encodedAction{a.Order, "sw-path-action", b}
	case *LoopbackAction:
		e = encodedAction{a.Order, "loopback-action", b}
	case *CopyTTLInAction:
		e = encodedAction{a.Order, "copy-ttl-in", b}
	case *CopyTTLOutAction:
		e = encodedAction{a.Order, "copy-ttl-out", b}
	case *DecMplsTTLAction:
		e = encodedAction{a.Order, "dec-mpls-ttl", b}
	case *DecNwTTLAction:
		e = encodedAction{a.Order, "dec-nw-ttl", b}
	case *StripVlanAction:
		e = encodedAction{a.Order, "strip-vlan-action", b}
	case nil:
		return e, bvc.Required("action")
	default:
		return e, fmt.Errorf("unsupported action type %T", a)
	}
	return e, e.body.Err()
}

// actionJSON renders a as {"order":n,"<key>":{...}}
func actionJSON(a Action) (string, error) {
	e, err := encodeAction(a)
	if err != nil {
		return "", err
	}
	inner := e.body.Res()
	if inner == "" {
		inner = "{}"
	}
	return bvc.Body{}.Set("order", e.order).SetRaw(e.key, inner).String()
}

// setOpt sets path only when v is non-nil
func setOpt[T any](b bvc.Body, path string, v *T) bvc.Body {
	if v == nil {
		return b
	}
	return b.Set(path, *v)
}

// Ptr returns a pointer to v, for the optional fields of actions, matches
// and flows.
func Ptr[T any](v T) *T {
	return &v
}
