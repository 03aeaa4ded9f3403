package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"

	"orbit-gateway/domain"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDirectory is a local directory adapter over durable membership
// records. It implements contract.IDirectory so the gateway can run
// standalone; a deployment backed by a remote directory only needs another
// implementation of the same interface.
type BadgerDirectory struct {
	db *badger.DB
}

func NewBadgerDirectory(db *badger.DB) *BadgerDirectory {
	return &BadgerDirectory{db: db}
}

func memberKey(room domain.RoomID, userID string) []byte {
	return fmt.Appendf(nil, "member:%s:%s", room, userID)
}

func capacityKey(room domain.RoomID) []byte {
	return fmt.Appendf(nil, "roomcap:%s", room)
}

func profileKey(userID string) []byte {
	return fmt.Appendf(nil, "profile:%s", userID)
}

func (d *BadgerDirectory) IsMember(userID string, room domain.RoomID) (bool, error) {
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(room, userID))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	return err == nil, err
}

// RoomCapacity returns nil for unbounded rooms.
func (d *BadgerDirectory) RoomCapacity(room domain.RoomID) (*int, error) {
	var capacity *int
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(capacityKey(room))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, err := strconv.Atoi(string(val))
			if err != nil {
				return err
			}
			capacity = &parsed
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return capacity, err
}

func (d *BadgerDirectory) LookupUser(userID string) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return domain.UserProfile{}, mapKeyNotFound(err)
	}
	return profile, nil
}

// AddMember records that a user belongs to a chat room.
func (d *BadgerDirectory) AddMember(userID string, room domain.RoomID) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(room, userID), []byte{1})
	})
}

// SetRoomCapacity fixes the member cap derived from the related planet or
// spaceship membership limit.
func (d *BadgerDirectory) SetRoomCapacity(room domain.RoomID, capacity int) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(capacityKey(room), []byte(strconv.Itoa(capacity)))
	})
}

func (d *BadgerDirectory) SaveProfile(profile domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), data)
	})
}
