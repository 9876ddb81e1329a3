// Package hclconfig is the HCL implementation of config.Loader.
//
// A configuration file may contain any of these top-level blocks; later
// files override earlier ones block by block:
//
//	session {
//	  default_modules = ["Outline", "Volume"]
//	}
//
//	reader ".mrc" {
//	  name = "MRCSeriesReader"
//	}
//
//	state_store {
//	  driver = "s3"
//	  bucket = "voxview-states"
//	}
//
//	recent_files {
//	  path  = "recent.db"
//	  limit = 20
//	}
//
//	broadcast {
//	  url = "http://localhost:3000"
//	}
package hclconfig
