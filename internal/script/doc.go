// Package script loads and runs Lua action files.
//
// An action file is a Lua chunk that returns a table describing the
// action:
//
//	return {
//	    name = "deploy",            -- optional, defaults to the file name
//	    description = "Deploy it",  -- required
//	    category = "release",       -- optional
//	    tags = { "ci", "release" }, -- optional
//	    translations = {            -- optional inline locale bundles
//	        en = { done = "Deployed" },
//	        fr = { done = "Déployé" },
//	    },
//	    run = function(ctx) ... end,       -- required
//	    describe = function(ctx) ... end,  -- optional
//	}
//
// Each loaded action owns a private sandboxed interpreter state: the
// io, os, debug, and package libraries are never opened, so scripts
// reach the host exclusively through the ctx table handed to run and
// describe. States are not goroutine-safe; Run and Describe serialize
// through a mutex.
package script
