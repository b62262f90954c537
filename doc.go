// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package bvc is a client for the RESTCONF API of the Brocade Vyatta
// Controller and other OpenDaylight based controllers.
//
// Every controller call returns a Res describing exactly one outcome:
// success, data not found, a node state, or a failure kind such as a
// refused connection or an HTTP error status. Failures are values, not
// errors; the error return is reserved for invalid arguments and malformed
// JSON on a success status.
//
// # Quick Start
//
//	ctrl, err := bvc.NewController("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"),
//	    bvc.Timeout(10*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	res, err := ctrl.NodesOperationalList(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.OK() {
//	    log.Fatal(res.Err())
//	}
//	for _, id := range res.Value {
//	    fmt.Println(id)
//	}
//
// # Raw Responses
//
// Res keeps the parsed body; use GetValue for fields the projection does
// not cover:
//
//	res, err := ctrl.NodeInfo(ctx, "vRouter")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.GetValue("node.0.netconf-node-inventory:connected").Bool())
//
// # NETCONF Nodes
//
// A NETCONF device is mounted by describing it and adding it:
//
//	node, err := bvc.NewNetconfNode(bvc.NetconfNodeConfig{
//	    Name:     "vRouter",
//	    Address:  "172.22.17.108",
//	    Port:     830,
//	    Username: "vyatta",
//	    Password: "vyatta",
//	})
//	res, err := ctrl.AddNetconfNode(ctx, node)
//
// Device specific operations live in the openflow and vrouter packages.
//
// # Logging
//
// The client logs through the Logger interface. NoOpLogger is the default;
// DefaultLogger writes to the standard log package and LogrusLogger adapts
// a logrus logger. Credentials are redacted from logged bodies.
//
// # Concurrency
//
// A Client and the Controller built on it hold no mutable state after
// construction and may be shared between goroutines. Every call is a single
// blocking request bounded by its context and the client timeout.
package bvc
