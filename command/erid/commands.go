// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/eri-project/erid/configuration"
	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
)

// setup command handler
//
// commands that cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Fprintf(os.Stderr, "supported commands:\n\n")
		fmt.Fprintf(os.Stderr, "  help                       (h)      - display this message\n\n")
		fmt.Fprintf(os.Stderr, "  version                    (v)      - display version sting\n\n")
		fmt.Fprintf(os.Stderr, "  domain                              - display the EIP-712 signing domain\n\n")
		fmt.Fprintf(os.Stderr, "  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Fprintf(os.Stderr, "\n")
		exitwithstatus.Exit(1)

	default:
		return false
	}

	// indicate processing complete and prefor normal exit from main
	return true
}

// configuration command handler
//
// commands that can only read the configuration
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := arguments[0]

	switch command {
	case "domain":
		a := options.AuthenticityConfiguration()
		domain := eip712.Domain{
			Name:              a.DomainName,
			Version:           a.DomainVersion,
			ChainID:           a.ChainID,
			VerifyingContract: a.Address,
		}
		separator, err := domain.Separator()
		if nil != err {
			exitwithstatus.Message("domain error: %s", err)
		}
		out := struct {
			Name              string `json:"name"`
			Version           string `json:"version"`
			ChainID           string `json:"chainId"`
			VerifyingContract string `json:"verifyingContract"`
			Separator         string `json:"separator"`
			CertificateType   string `json:"certificateType"`
		}{
			Name:              a.DomainName,
			Version:           a.DomainVersion,
			ChainID:           a.ChainID.String(),
			VerifyingContract: a.Address.Hex(),
			Separator:         separator.String(),
			CertificateType:   a.CertificateType,
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if nil != err {
			exitwithstatus.Message("domain error: %s", err)
		}
		fmt.Printf("%s\n", b)

	case "start", "run":
		return false // continue processing

	default:
		exitwithstatus.Message("error: no such command: %v", command)
	}

	return true
}

// each define is name=value
func parseDefines(defines []string) (map[string]string, error) {
	variables := make(map[string]string)
	for _, d := range defines {
		s := strings.SplitN(d, "=", 2)
		if 2 != len(s) || "" == s[0] {
			return nil, fault.ErrInvalidDefine
		}
		variables[s[0]] = s[1]
	}
	return variables, nil
}
