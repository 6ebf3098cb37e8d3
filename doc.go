// Package robobug drives a robobug walking robot through its HTTP control
// server, and exposes the robot's actions to block-based coding hosts.
//
// # Installation
//
//	go install github.com/gwillem/robobug/cmd/robobug@latest
//
// # Usage
//
// Point the tool at the robot server (default http://localhost:8080/):
//
//	robobug setup
//
// List and invoke actions:
//
//	robobug actions
//	robobug invoke walk FORWARD=50 TURN=-20
//	robobug invoke akkuCharge
//
// Drive it from the keyboard:
//
//	robobug teleoperate
//
// Serve the catalog to a block host, or run a simulated robot:
//
//	robobug bridge --listen :8081
//	robobug sim --listen :8080
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/robobug: CLI with actions, invoke, setup, teleoperate, bridge and sim commands
//   - pkg/robot: Action catalog, argument clamping, HTTP client, configuration
//   - pkg/teleop: Teleoperation controller
//   - pkg/bridge: HTTP API for block-based coding hosts
//   - pkg/metrics: Prometheus request metrics
//   - pkg/sim: Simulated robobug server
package robobug
