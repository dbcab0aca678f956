// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for all file parsing, HCL-to-model
// translation, and cty-to-Go conversion of attribute values.
//
// A catalog file may contain any number of these top-level blocks:
//
//	simulation {
//	  runs              = 20
//	  max_steps_per_run = 200
//	  speed             = 1
//	  fast_mode         = false
//	}
//
//	example "if-else" {
//	  title       = "If / else"
//	  description = "Two branches that merge again."
//
//	  node "ENTRY" { kind = "entry" }
//	  node "D" {
//	    kind = "decision"
//	    meta = { shape = "diamond" }
//	  }
//
//	  edge "e0" {
//	    from   = "ENTRY"
//	    to     = "D"
//	    weight = 22
//	    kind   = "entry"
//	  }
//	}
//
// Weights may be written as numbers or numeric strings; meta values must be
// convertible to strings.
package hcl
