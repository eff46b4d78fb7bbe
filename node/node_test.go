// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/eri-project/erid/authenticity"
	"github.com/eri-project/erid/chain"
	"github.com/eri-project/erid/configuration"
	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/fixtures"
	"github.com/eri-project/erid/messagebus"
	"github.com/eri-project/erid/metrics"
	"github.com/eri-project/erid/node"
	"github.com/eri-project/erid/ownership"
	"github.com/eri-project/erid/storage"
)

var (
	contract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	owner      = fixtures.Address(1)
	recipient  = fixtures.Address(2)
	recipient2 = fixtures.Address(3)
	stranger   = fixtures.Address(4)

	epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type testNode struct {
	*node.Node
	maker  fixtures.Account
	reg    *prometheus.Registry
	events <-chan messagebus.Message
}

func setup(t *testing.T) *testNode {
	fixtures.SetupTestLogger()

	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory error: %s", err)
	}

	reg := prometheus.NewRegistry()
	n, err := node.New(node.Parameters{
		Database: db,
		Authenticity: authenticity.Configuration{
			Address: contract,
			ChainID: chain.ID(chain.Local),
		},
		Deployer:   deployer,
		Registerer: reg,
		Clock:      func() time.Time { return epoch },
	})
	if nil != err {
		t.Fatalf("new node error: %s", err)
	}

	return &testNode{
		Node:   n,
		maker:  fixtures.NewAccount(),
		reg:    reg,
		events: n.Events(100),
	}
}

func (n *testNode) teardown() {
	n.Close()
	fixtures.TeardownTestLogger()
}

func (n *testNode) commands() []string {
	commands := []string{}
	for {
		select {
		case m, ok := <-n.events:
			if !ok {
				return commands
			}
			commands = append(commands, m.Command)
		default:
			return commands
		}
	}
}

func (n *testNode) certificate(t *testing.T, id string) (authenticity.Certificate, []byte) {
	certificate := authenticity.Certificate{
		Name:         "Chronograph",
		UniqueID:     id,
		Serial:       "SN-" + id,
		Date:         big.NewInt(1709294400),
		Owner:        n.maker.Address,
		MetadataHash: eip712.Keccak256([]byte("steel")),
		Metadata:     []string{"steel"},
	}
	digest, err := n.CertificateDigest(certificate)
	if nil != err {
		t.Fatalf("digest error: %s", err)
	}
	signature, err := eip712.Sign(digest, n.maker.Key)
	if nil != err {
		t.Fatalf("sign error: %s", err)
	}
	return certificate, signature
}

func itemIDs(items []ownership.Item) []string {
	ids := []string{}
	for _, item := range items {
		ids = append(ids, item.ItemID)
	}
	return ids
}

// manufacturer names are unique
func TestScenarioA(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	assert.Equal(t, fault.ErrNameTaken, n.RegisterManufacturer(stranger, "Acme"))

	address, err := n.ManufacturerByName("Acme")
	assert.NoError(t, err)
	assert.Equal(t, n.maker.Address, address)

	m, err := n.Manufacturer(n.maker.Address)
	assert.NoError(t, err)
	assert.Equal(t, "Acme", m.Name)

	exact, err := n.ManufacturerAddress(n.maker.Address)
	assert.NoError(t, err)
	assert.Equal(t, n.maker.Address, exact)

	_, err = n.ManufacturerAddress(stranger)
	assert.Equal(t, fault.ErrNotFound, err)

	assert.Equal(t, []string{"ManufacturerRegistered"}, n.commands())
}

// usernames are at least three bytes and unique
func TestScenarioB(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.Equal(t, fault.ErrBadUsername, n.RegisterUser(owner, "ab"))
	assert.NoError(t, n.RegisterUser(owner, "abc"))
	assert.Equal(t, fault.ErrNotAvailable, n.RegisterUser(recipient, "abc"))

	profile, err := n.User(owner)
	assert.NoError(t, err)
	assert.Equal(t, "abc", profile.Username)
	assert.True(t, profile.Registered)
	assert.Equal(t, epoch, profile.RegisteredAt)

	_, err = n.User(recipient)
	assert.Equal(t, fault.ErrUserDoesNotExist, err)

	assert.Equal(t, []string{ownership.EventUserRegistered}, n.commands())
}

// only the manufacturer's own key verifies
func TestScenarioC(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	certificate, signature := n.certificate(t, "X")

	ok, err := n.VerifySignature(certificate, signature)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, name, err := n.VerifyAuthenticity(certificate, signature)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)

	digest, err := n.CertificateDigest(certificate)
	assert.NoError(t, err)
	forged, err := eip712.Sign(digest, fixtures.NewAccount().Key)
	assert.NoError(t, err)

	ok, err = n.VerifySignature(certificate, forged)
	assert.Equal(t, fault.ErrInvalidSignature, err)
	assert.False(t, ok)
}

// claim, transfer and the lists of both owners
func TestScenarioD(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	assert.NoError(t, n.RegisterUser(recipient, "recipient"))
	assert.NoError(t, n.RegisterUser(recipient2, "recipient2"))
	n.commands()

	certificate, signature := n.certificate(t, "X")
	assert.NoError(t, n.ClaimOwnership(owner, certificate, signature))

	items, err := n.MyItems(owner)
	assert.NoError(t, err)
	assert.Equal(t, []string{"X"}, itemIDs(items))

	code, err := n.GenerateClaimCode(owner, "X", recipient)
	assert.NoError(t, err)
	assert.False(t, code.IsZero())

	pending, err := n.PendingRecipient(code)
	assert.NoError(t, err)
	assert.Equal(t, recipient, pending)

	_, err = n.GenerateClaimCode(owner, "X", recipient2)
	assert.Equal(t, fault.ErrClaimAlreadyOutstanding, err)

	assert.Equal(t, fault.ErrUnauthorized, n.AcceptClaim(recipient2, code), "not the recipient")
	assert.NoError(t, n.AcceptClaim(recipient, code))

	current, ok, err := n.OwnerOf("X")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, recipient, current)

	items, err = n.ItemsOf(owner)
	assert.NoError(t, err)
	assert.Empty(t, items, "removed from previous owner")

	items, err = n.ItemsOf(recipient)
	assert.NoError(t, err)
	assert.Equal(t, []string{"X"}, itemIDs(items), "added to new owner")

	item, err := n.Item("X")
	assert.NoError(t, err)
	assert.Equal(t, recipient, item.Owner)
	assert.Equal(t, "Acme", item.Manufacturer)

	pending, err = n.PendingRecipient(code)
	assert.NoError(t, err)
	assert.Equal(t, common.Address{}, pending, "code consumed")

	assert.Equal(t, []string{
		ownership.EventItemCreated,
		ownership.EventOwnershipCode,
		ownership.EventOwnershipClaimed,
	}, n.commands())
}

// only the owner can offer an item
func TestScenarioE(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	assert.NoError(t, n.RegisterUser(stranger, "stranger"))

	certificate, signature := n.certificate(t, "X")
	assert.NoError(t, n.ClaimOwnership(owner, certificate, signature))

	_, err := n.GenerateClaimCode(stranger, "X", recipient)
	assert.Equal(t, fault.ErrOnlyOwner, err)
}

func TestRevoke(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	assert.NoError(t, n.RegisterUser(recipient, "recipient"))

	certificate, signature := n.certificate(t, "X")
	assert.NoError(t, n.ClaimOwnership(owner, certificate, signature))

	code, err := n.GenerateClaimCode(owner, "X", recipient)
	assert.NoError(t, err)

	assert.Equal(t, fault.ErrOnlyOwner, n.RevokeClaim(recipient, code))
	assert.NoError(t, n.RevokeClaim(owner, code))
	assert.Equal(t, fault.ErrDoesNotExist, n.RevokeClaim(owner, code))
	assert.Equal(t, fault.ErrUnauthorized, n.AcceptClaim(recipient, code))

	// a fresh code may be issued once the old one is gone
	again, err := n.GenerateClaimCode(owner, "X", recipient)
	assert.NoError(t, err)
	assert.Equal(t, code, again, "same unchanged item")
}

func TestClaimFailures(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterManufacturer(n.maker.Address, "Acme"))
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	n.commands()

	certificate, signature := n.certificate(t, "X")

	assert.Equal(t, fault.ErrClaimFailed, n.ClaimOwnership(stranger, certificate, signature), "unregistered claimant")
	_, ok, err := n.OwnerOf("X")
	assert.NoError(t, err)
	assert.False(t, ok, "nothing created")
	assert.Empty(t, n.commands(), "no events")

	_, err = n.MyItems(stranger)
	assert.Equal(t, fault.ErrUserDoesNotExist, err)

	assert.NoError(t, n.ClaimOwnership(owner, certificate, signature))
	assert.Equal(t, fault.ErrClaimFailed, n.ClaimOwnership(owner, certificate, signature), "duplicate")

	_, err = n.Item("missing")
	assert.Equal(t, fault.ErrItemDoesNotExist, err)
}

func TestMetrics(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	assert.NoError(t, n.RegisterUser(owner, "owner"))
	assert.Equal(t, fault.ErrNotAvailable, n.RegisterUser(recipient, "owner"))

	operations, err := n.reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, operations)

	// the link at start up is not counted as an operation
	count, err := testutil.GatherAndCount(n.reg, "erid_operation_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count, "one operation name")

	count, err = testutil.GatherAndCount(n.reg, "erid_operations_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count, "ok and exists series")
	assert.Equal(t, metrics.ResultExists, metrics.Result(fault.ErrNotAvailable))
}

func TestDroppedEventsMetric(t *testing.T) {
	n := setup(t)
	defer n.teardown()

	slow := n.Events(1)
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	assert.NoError(t, n.RegisterUser(recipient, "recipient"))

	expected := `
# HELP erid_events_dropped_total Event deliveries skipped because a listener was full
# TYPE erid_events_dropped_total counter
erid_events_dropped_total 1
`
	err := testutil.GatherAndCompare(n.reg, strings.NewReader(expected), "erid_events_dropped_total")
	assert.NoError(t, err)

	m := <-slow
	assert.Equal(t, ownership.EventUserRegistered, m.Command)
}

func TestStartupLinksOnce(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir, err := os.MkdirTemp("", "erid-node")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	defer os.RemoveAll(dir)

	conf := write(t, dir, contract, deployer)
	n, err := node.Open(conf, prometheus.NewRegistry())
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, contract, n.Authenticity())
	assert.Equal(t, deployer, n.Deployer())
	assert.NoError(t, n.RegisterUser(owner, "owner"))
	n.Close()

	// same deployment: state survives
	n, err = node.Open(conf, prometheus.NewRegistry())
	if !assert.NoError(t, err) {
		return
	}
	profile, err := n.User(owner)
	assert.NoError(t, err)
	assert.Equal(t, "owner", profile.Username)
	n.Close()

	// different authenticity address: rejected
	other := write(t, dir, common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"), deployer)
	_, err = node.Open(other, prometheus.NewRegistry())
	assert.Equal(t, fault.ErrAuthenticityAlreadySet, err)

	// different deployer: rejected
	other = write(t, dir, contract, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"))
	_, err = node.Open(other, prometheus.NewRegistry())
	assert.Equal(t, fault.ErrDeployerMismatch, err)

	// original configuration still opens
	n, err = node.Open(conf, prometheus.NewRegistry())
	if assert.NoError(t, err) {
		n.Close()
	}
}

func write(t *testing.T, dir string, authenticityAddress common.Address, deployerAddress common.Address) *configuration.Configuration {
	fileName := filepath.Join(dir, "erid.conf")
	content := `return {
    data_directory = ".",
    chain = "local",
    contracts = {
        authenticity = "` + authenticityAddress.Hex() + `",
        deployer = "` + deployerAddress.Hex() + `",
    },
}
`
	if err := os.WriteFile(fileName, []byte(content), 0600); nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	conf, err := configuration.GetConfiguration(fileName, nil)
	if nil != err {
		t.Fatalf("configuration error: %s", err)
	}
	return conf
}
