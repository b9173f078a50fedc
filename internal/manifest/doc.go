// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package manifest reads declarative node type manifests written in HCL and
// feeds them into the node type and conversion registries.
//
// A manifest file may hold any number of these top-level blocks:
//
//	library "Math" {
//	  category     = "Math"
//	  mapped_names = ["Arith"]
//
//	  node "Add_v2p0" {
//	    ui_name      = "Add"
//	    mapped_names = ["Plus"]
//
//	    input "a" {
//	      type    = number
//	      default = 0
//	    }
//	    input "mode" {
//	      type     = string
//	      constant = true
//	      default  = "fast"
//	    }
//	    output "result" { type = number }
//	  }
//	}
//
//	node "Print" {
//	  input "value" { type = any }
//	}
//
//	conversion {
//	  from = number
//	  to   = string
//	}
//
// Nodes outside a library belong to the unnamed library. A node's version
// comes from its `version` attribute, else from its name suffix, else it is
// 1.0. Inputs typed `any` accept every native type; outputs typed `any` are
// untyped. Pins may carry `format` and `handle` to describe foreign data.
//
// Problems are reported as hcl.Diagnostics with source ranges.
package manifest
