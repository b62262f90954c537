// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package openflow manages OpenFlow switches connected to the controller.
//
// OFSwitch reads switch, feature and port inventory and programs flows in
// the config datastore. Flows are built from a FlowEntry holding a Match
// and a list of apply-actions Instructions:
//
//	flow, err := openflow.NewFlowEntry(openflow.FlowEntryConfig{
//	    ID:       "12",
//	    Priority: openflow.Ptr[uint16](1000),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	flow.SetMatch(&openflow.Match{
//	    EthernetType: openflow.Ptr[uint16](0x0800),
//	    IPv4Dst:      "10.11.12.13/32",
//	})
//	inst := openflow.NewInstruction(0)
//	if err := inst.AddApplyAction(&openflow.OutputAction{Order: 0, Port: "5"}); err != nil {
//	    log.Fatal(err)
//	}
//	flow.AddInstruction(inst)
//	res, err := sw.AddModifyFlow(ctx, flow)
//
// Flows read back from the controller can be shown the way ovs-ofctl
// dump-flows prints them with ToOVS, or with OperationalFlowsOVS and
// ConfiguredFlowsOVS on a switch.
package openflow
