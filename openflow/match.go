// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package openflow

import "github.com/netascode/go-bvc"

// Match selects the packets a flow applies to. Every field is optional:
// empty strings and nil pointers are left out of the document.
//
// Example:
//
//	m := &openflow.Match{
//	    EthernetType: openflow.Ptr[uint16](0x0800),
//	    IPv4Dst:      "10.11.12.13/32",
//	    InPort:       "1",
//	}
type Match struct {
	// Ethernet
	EthernetType *uint16
	EthernetSrc  string
	EthernetDst  string

	// IPv4 and IPv6 addresses in CIDR notation
	IPv4Src string
	IPv4Dst string
	IPv6Src string
	IPv6Dst string

	IPv6FlowLabel *uint32
	IPv6ExtHeader *uint16

	// Ingress ports, either a number or "<switch>:<number>"
	InPort    string
	InPhyPort string

	// IP header
	IPDSCP     *uint8
	IPECN      *uint8
	IPProtocol *uint8

	// Transport ports
	TCPSrcPort  *uint16
	TCPDstPort  *uint16
	UDPSrcPort  *uint16
	UDPDstPort  *uint16
	SCTPSrcPort *uint16
	SCTPDstPort *uint16

	ICMPv4Type *uint8
	ICMPv4Code *uint8
	ICMPv6Type *uint8
	ICMPv6Code *uint8

	// ARP
	ARPOpCode *uint16
	ARPSrcIP  string
	ARPDstIP  string
	ARPSrcMAC string
	ARPDstMAC string

	// VlanPCP is only sent together with VlanID
	VlanID  *uint16
	VlanPCP *uint8

	MplsLabel *uint32
	MplsTC    *uint8
	MplsBOS   *uint8

	TunnelID *uint64

	Metadata     *uint64
	MetadataMask *uint64
}

// body renders the match container content. A nil or empty match renders
// as an empty string.
func (m *Match) body() bvc.Body {
	b := bvc.Body{}
	if m == nil {
		return b
	}

	b = setOpt(b, "ethernet-match.ethernet-type.type", m.EthernetType)
	b = b.SetIf(m.EthernetDst != "", "ethernet-match.ethernet-destination.address", m.EthernetDst)
	b = b.SetIf(m.EthernetSrc != "", "ethernet-match.ethernet-source.address", m.EthernetSrc)

	b = b.SetIf(m.IPv4Dst != "", "ipv4-destination", m.IPv4Dst)
	b = b.SetIf(m.IPv4Src != "", "ipv4-source", m.IPv4Src)
	b = b.SetIf(m.IPv6Dst != "", "ipv6-destination", m.IPv6Dst)
	b = b.SetIf(m.IPv6Src != "", "ipv6-source", m.IPv6Src)
	b = setOpt(b, "ipv6-label.ipv6-flabel", m.IPv6FlowLabel)
	b = setOpt(b, "ipv6-ext-header.ipv6-exthdr", m.IPv6ExtHeader)

	b = b.SetIf(m.InPort != "", "in-port", m.InPort)
	b = b.SetIf(m.InPhyPort != "", "in_phy_port", m.InPhyPort)

	b = setOpt(b, "ip-match.ip-dscp", m.IPDSCP)
	b = setOpt(b, "ip-match.ip-ecn", m.IPECN)
	b = setOpt(b, "ip-match.ip-protocol", m.IPProtocol)

	b = setOpt(b, "tcp-source-port", m.TCPSrcPort)
	b = setOpt(b, "tcp-destination-port", m.TCPDstPort)
	b = setOpt(b, "udp-source-port", m.UDPSrcPort)
	b = setOpt(b, "udp-destination-port", m.UDPDstPort)
	b = setOpt(b, "sctp-source-port", m.SCTPSrcPort)
	b = setOpt(b, "sctp-destination-port", m.SCTPDstPort)

	b = setOpt(b, "icmpv4-match.icmpv4-code", m.ICMPv4Code)
	b = setOpt(b, "icmpv4-match.icmpv4-type", m.ICMPv4Type)
	b = setOpt(b, "icmpv6-match.icmpv6-code", m.ICMPv6Code)
	b = setOpt(b, "icmpv6-match.icmpv6-type", m.ICMPv6Type)

	b = setOpt(b, "arp-op", m.ARPOpCode)
	b = b.SetIf(m.ARPSrcIP != "", "arp-source-transport-address", m.ARPSrcIP)
	b = b.SetIf(m.ARPDstIP != "", "arp-target-transport-address", m.ARPDstIP)
	b = b.SetIf(m.ARPSrcMAC != "", "arp-source-hardware-address.address", m.ARPSrcMAC)
	b = b.SetIf(m.ARPDstMAC != "", "arp-target-hardware-address.address", m.ARPDstMAC)

	if m.VlanID != nil {
		b = b.Set("vlan-match.vlan-id.vlan-id", *m.VlanID).
			Set("vlan-match.vlan-id.vlan-id-present", true)
		b = setOpt(b, "vlan-match.vlan-pcp", m.VlanPCP)
	}

	b = setOpt(b, "protocol-match-fields.mpls-label", m.MplsLabel)
	b = setOpt(b, "protocol-match-fields.mpls-tc", m.MplsTC)
	b = setOpt(b, "protocol-match-fields.mpls-bos", m.MplsBOS)

	b = setOpt(b, "tunnel.tunnel-id", m.TunnelID)

	b = setOpt(b, "metadata.metadata", m.Metadata)
	b = setOpt(b, "metadata.metadata-mask", m.MetadataMask)
	return b
}

// JSON returns the match container as a JSON object, "{}" when empty
func (m *Match) JSON() (string, error) {
	s, err := m.body().String()
	if err != nil {
		return "", err
	}
	if s == "" {
		return "{}", nil
	}
	return s, nil
}
