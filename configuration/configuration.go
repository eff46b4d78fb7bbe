// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/authenticity"
	"github.com/eri-project/erid/chain"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabaseSuffix   = ".leveldb"

	defaultMetricsPath = "/metrics"

	defaultLogDirectory = "log"
	defaultLogFile      = "erid.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

type DomainType struct {
	Name    string `gluamapper:"name" json:"name"`
	Version string `gluamapper:"version" json:"version"`
}

// ContractsType - hex addresses of the deployed components
type ContractsType struct {
	Authenticity string `gluamapper:"authenticity" json:"authenticity"`
	Ownership    string `gluamapper:"ownership" json:"ownership"`
	Deployer     string `gluamapper:"deployer" json:"deployer"`
}

type LoggerType struct {
	Directory string      `gluamapper:"directory" json:"directory"`
	File      string      `gluamapper:"file" json:"file"`
	Size      int         `gluamapper:"size" json:"size"`
	Count     int         `gluamapper:"count" json:"count"`
	Console   bool        `gluamapper:"console" json:"console"`
	Levels    LoglevelMap `gluamapper:"levels" json:"levels"`
}

// MetricsType - Prometheus endpoint, blank listen disables it
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
	Path   string `gluamapper:"path" json:"path"`
}

// Addresses - parsed form of ContractsType
type Addresses struct {
	Authenticity common.Address
	Ownership    common.Address
	Deployer     common.Address
}

type Configuration struct {
	DataDirectory   string        `gluamapper:"data_directory" json:"data_directory"`
	Chain           string        `gluamapper:"chain" json:"chain"`
	ChainID         int64         `gluamapper:"chain_id" json:"chain_id"`
	Database        DatabaseType  `gluamapper:"database" json:"database"`
	Domain          DomainType    `gluamapper:"domain" json:"domain"`
	CertificateType string        `gluamapper:"certificate_type" json:"certificate_type"`
	Contracts       ContractsType `gluamapper:"contracts" json:"contracts"`
	Metrics         MetricsType   `gluamapper:"metrics" json:"metrics"`
	Logging         LoggerType    `gluamapper:"logging" json:"logging"`

	// filled in after parsing
	Addresses Addresses `gluamapper:"-" json:"-"`
}

// GetConfiguration - will read decode and verify the configuration
func GetConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:   defaultDataDirectory,
		Chain:           chain.ArbitrumOne,
		CertificateType: authenticity.DefaultCertificateType,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
		},

		Domain: DomainType{
			Name:    authenticity.DefaultDomainName,
			Version: authenticity.DefaultDomainVersion,
		},

		Metrics: MetricsType{
			Path: defaultMetricsPath,
		},

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: LoglevelMap{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// abort if the chain name is not recognised
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fault.ErrInvalidChain
	}
	if "" == options.Database.Name {
		options.Database.Name = options.Chain + defaultDatabaseSuffix
	}

	if err := options.parseAddresses(); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fault.ErrInvalidDataDirectory
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = util.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if !util.IsDirectory(options.DataDirectory) {
		return nil, fault.ErrInvalidDataDirectory
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator
	for _, f := range []string{options.Database.Name, options.Logging.File} {
		switch filepath.Dir(f) {
		case "", ".":
		default:
			return nil, fault.ErrInvalidFileName
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

func (options *Configuration) parseAddresses() error {
	fields := []struct {
		hex      string
		address  *common.Address
		optional bool
	}{
		{options.Contracts.Authenticity, &options.Addresses.Authenticity, false},
		{options.Contracts.Ownership, &options.Addresses.Ownership, true},
		{options.Contracts.Deployer, &options.Addresses.Deployer, false},
	}
	for _, r := range fields {
		if "" == r.hex && r.optional {
			continue
		}
		if !common.IsHexAddress(r.hex) {
			return fault.ErrInvalidAddress
		}
		*r.address = common.HexToAddress(r.hex)
		if (common.Address{}) == *r.address {
			return fault.ErrAddressZero
		}
	}
	return nil
}

// ChainIdentifier - explicit chain_id or the chain's own id
func (options *Configuration) ChainIdentifier() *big.Int {
	if 0 != options.ChainID {
		return big.NewInt(options.ChainID)
	}
	return chain.ID(options.Chain)
}

// DatabaseFile - full path of the LevelDB directory
func (options *Configuration) DatabaseFile() string {
	return filepath.Join(options.Database.Directory, options.Database.Name)
}

// LoggerConfiguration - settings for logger.Initialise
func (options *Configuration) LoggerConfiguration() logger.Configuration {
	return logger.Configuration{
		Directory: options.Logging.Directory,
		File:      options.Logging.File,
		Size:      options.Logging.Size,
		Count:     options.Logging.Count,
		Console:   options.Logging.Console,
		Levels:    options.Logging.Levels,
	}
}

// AuthenticityConfiguration - deployment parameters of the
// authenticity component
func (options *Configuration) AuthenticityConfiguration() authenticity.Configuration {
	return authenticity.Configuration{
		Address:         options.Addresses.Authenticity,
		ChainID:         options.ChainIdentifier(),
		DomainName:      options.Domain.Name,
		DomainVersion:   options.Domain.Version,
		CertificateType: options.CertificateType,
	}
}
