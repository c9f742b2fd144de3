// Package storage provides the byte-addressable region that backs a simulated
// physical memory.
package storage

import (
	"errors"
	"fmt"
)

// ErrAddressOutOfRange is returned when an access touches a byte at or beyond
// the capacity of the storage.
var ErrAddressOutOfRange = errors.New(
	"storage: accessing physical address beyond the storage capacity")

// A Storage keeps the data of the simulated memory.
//
// The storage manages its bytes in units of a fixed size. A frame allocator
// uses its frame size as the unit size, so that one unit is one frame. Units
// that are never touched are never allocated.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// New creates a storage of the given capacity, managed in units of unitSize
// bytes. The unit size must be a power of two.
func New(capacity, unitSize uint64) *Storage {
	if unitSize == 0 || unitSize&(unitSize-1) != 0 {
		panic(fmt.Sprintf("storage: unit size %d is not a power of two", unitSize))
	}

	return &Storage{
		unitSize: unitSize,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// UnitSize returns the number of bytes in each unit.
func (s *Storage) UnitSize() uint64 {
	return s.unitSize
}

// Unit returns the live unit that contains address. Writes into the returned
// slice are writes into the storage.
func (s *Storage) Unit(address uint64) ([]byte, error) {
	return s.createOrGetUnit(address)
}

func (s *Storage) createOrGetUnit(address uint64) ([]byte, error) {
	if address >= s.capacity {
		return nil, fmt.Errorf("%w: 0x%x", ErrAddressOutOfRange, address)
	}

	baseAddr, _ := s.parseAddress(address)
	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr & (s.unitSize - 1)
	baseAddr = addr - inUnitAddr

	return
}

func (s *Storage) rangeMustFit(address, length uint64) error {
	if length == 0 {
		return nil
	}

	if address >= s.capacity || length > s.capacity-address {
		return fmt.Errorf("%w: [0x%x, 0x%x)",
			ErrAddressOutOfRange, address, address+length)
	}

	return nil
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	if err := s.rangeMustFit(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	err := s.walk(address, length, func(unit []byte, dataOffset uint64) {
		copy(res[dataOffset:], unit)
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.rangeMustFit(address, length); err != nil {
		return err
	}

	return s.walk(address, length, func(unit []byte, dataOffset uint64) {
		copy(unit, data[dataOffset:])
	})
}

// Clear sets length bytes starting at address to zero.
func (s *Storage) Clear(address uint64, length uint64) error {
	if err := s.rangeMustFit(address, length); err != nil {
		return err
	}

	return s.walk(address, length, func(unit []byte, _ uint64) {
		clear(unit)
	})
}

// walk visits [address, address+length) unit by unit. Each call of f receives
// the slice of the unit that overlaps the range and the offset of that slice
// within the range.
func (s *Storage) walk(
	address, length uint64,
	f func(unit []byte, dataOffset uint64),
) error {
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < length {
		unit, err := s.createOrGetUnit(currAddr)
		if err != nil {
			return err
		}

		_, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInUnit := s.unitSize - inUnitAddr
		lenToVisit := min(length-dataOffset, lenLeftInUnit)

		f(unit[inUnitAddr:inUnitAddr+lenToVisit], dataOffset)

		dataOffset += lenToVisit
		currAddr += lenToVisit
	}

	return nil
}
