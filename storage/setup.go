// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/eri-project/erid/fault"
)

// Pools - the set of exported pools
//
// note all must be exported (i.e. initial capital) or initialisation will fail
type Pools struct {
	Manufacturers     *PoolHandle `prefix:"M"`
	ManufacturerNames *PoolHandle `prefix:"m"`
	Users             *PoolHandle `prefix:"U"`
	Usernames         *PoolHandle `prefix:"u"`
	OwnerItems        *PoolHandle `prefix:"I"`
	OwnerNextCount    *PoolHandle `prefix:"N"`
	OwnerList         *PoolHandle `prefix:"L"`
	OwnerIndex        *PoolHandle `prefix:"D"`
	ItemOwner         *PoolHandle `prefix:"O"`
	ClaimRecipient    *PoolHandle `prefix:"C"`
	ClaimItem         *PoolHandle `prefix:"S"`
	Settings          *PoolHandle `prefix:"X"`
	TestData          *PoolHandle `prefix:"Z"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Database - an open LevelDB database and its pools
type Database struct {
	sync.Mutex
	log   *logger.L
	db    *leveldb.DB
	inUse bool

	Pool Pools
}

// Open - open (or create) the database in the named directory
func Open(name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return setup(db, name, readOnly)
}

// OpenMemory - a database that is discarded on Close
func OpenMemory() (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(db, "memory", ReadWrite)
}

func setup(db *leveldb.DB, name string, readOnly bool) (*Database, error) {
	d := &Database{
		log: logger.New("storage"),
		db:  db,
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		d.log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.ErrDatabaseIsNewer
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			return nil, err
		}
	} else if version != currentDBVersion {
		d.log.Criticalf("database version: %d  expected: %d", version, currentDBVersion)
		return nil, fault.ErrDatabaseVersion
	}

	if err := d.Pool.initialise(); nil != err {
		return nil, err
	}

	d.log.Infof("opened: %s  version: %d", name, currentDBVersion)

	ok = true // prevent db close
	return d, nil
}

// assign a handle to every pool field from its prefix tag
func (p *Pools) initialise() error {

	// this will be a struct type
	poolType := reflect.TypeOf(*p)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(p).Elem()

	seen := make(map[byte]string)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s has same prefix as: %s", fieldInfo.Name, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		h := &PoolHandle{
			prefix: prefix,
			limit:  limit,
		}
		poolValue.Field(i).Set(reflect.ValueOf(h))
	}
	return nil
}

// Close - close the database connection
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()

	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
}

// return 0 for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
