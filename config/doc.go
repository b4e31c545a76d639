// Package config loads the approval binding configuration.
//
// Core types:
//   - Bindings: The loaded bindings file with collected warnings
//   - Binding: One approval-binding-id to channel/target mapping
//
// The bindings file is YAML:
//
//	bindings:
//	  - agentId: release-approver
//	    channel: slack
//	    target: U123456
//	    accountId: ops
//
// Callers load bindings once and hand them to the Runner; this package
// holds no global state.
package config
