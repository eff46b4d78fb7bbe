// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.
//
// the script must return a table, for example:
//
//	return {
//	    data_directory = ".",
//	    chain = "local",
//	    contracts = {
//	        authenticity = "0x5FbDB2315678afecb367f032d93F642f64180aa3",
//	        deployer = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
//	    },
//	}
package configuration
