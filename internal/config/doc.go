// Package config loads the optional bootstrap configuration.
//
// The file is Lua, executed in a sandboxed gopher-lua VM with the detected
// host exposed as a read-only global table named platform. It must assign a
// global table named bootstrap:
//
//	bootstrap = {
//	  mirror = "https://mirror.example.com/ghgrab/releases/download",
//	  timeout = 300,
//	  progress = true,
//	  log_level = "info",
//	  verify = {
//	    public_key = "~/.config/ghgrab/release.asc",
//	    sha256 = { linux = "9f86d0...", ["darwin-arm64"] = "..." },
//	  },
//	}
//
// Every field is optional and a missing file yields Defaults. The install
// directory and the release version cannot be configured: both are fixed by
// the location of the running executable and by the build.
//
// The sandbox removes os, io, debug, package loading, load/loadstring/dofile
// and print. string, table and math stay available, so platform-dependent
// values can be computed:
//
//	bootstrap = {
//	  mirror = platform.is_linux and "https://linux-mirror.example.com" or nil,
//	}
package config
