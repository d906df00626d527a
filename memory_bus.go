// memory_bus.go - Host memory bus for IntuitionRV

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
Buy me a coffee: https://ko-fi.com/intuition/tip

License: GPLv3 or later
*/

/*
memory_bus.go - Host Memory Bus for IntuitionRV

This module implements the small host-side memory bus that carries the
memory-mapped peripherals of the IntuitionRV harness, chiefly the test
finisher device. The floating-point core itself has no bus presence; its
state is reached through direct method calls. The bus exists so programs
and tests can signal pass/fail results the same way RISC-V test firmware
does on real platforms, through a magic MMIO write.

Core Features:

    1MB of host memory allocated as a contiguous block.
    Memory-mapped I/O via an I/O region mapping table with page masking.
    Little-endian 32-bit read/write operations.
    Full reset capability to clear the memory state.
    Thread-safe access through a read/write mutex.

Technical Details:

    The SystemBus struct fulfils the MemoryBus interface, encapsulating the
    memory block and a mapping of I/O regions. Regions are registered with a
    start and end address plus onRead/onWrite callbacks invoked when an
    access falls within the boundaries. Page keys use a 0x100 page size so a
    region lookup touches only its own pages. 32-bit values use
    binary.LittleEndian conversion, matching the RISC-V memory model.
*/

package main

import (
	"encoding/binary"
	"sync"
)

const (
	BUS_MEMORY_SIZE = 1 * 1024 * 1024
	BUS_WORD_SIZE   = 4
	PAGE_SIZE       = 0x100
	PAGE_MASK       = 0xFFF00
)

type MemoryBus interface {
	/*
		MemoryBus defines the interface for 32-bit memory operations on the
		IntuitionRV host bus: reads, writes and a full reset.

		Implementations must ensure thread safety and support memory-mapped
		I/O regions.
	*/

	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	Reset()
}

type SystemBus struct {
	/*
		SystemBus implements the MemoryBus interface and serves as the host
		bus for IntuitionRV's memory-mapped peripherals.

		It maintains a contiguous memory block and a mapping of I/O regions,
		guarded by a read/write mutex.
	*/

	memory  []byte
	mutex   sync.RWMutex
	mapping map[uint32][]IORegion
}

type IORegion struct {
	/*
		IORegion represents a memory-mapped I/O region. Each region is
		defined by its start and end addresses and callback functions for
		read and write operations, invoked when an access falls within the
		region's boundaries.
	*/
	start   uint32
	end     uint32
	onRead  func(addr uint32) uint32
	onWrite func(addr uint32, value uint32)
}

func NewSystemBus() *SystemBus {
	/*
		NewSystemBus initialises and returns a new SystemBus instance with
		its memory block allocated and the I/O mapping table empty.
	*/

	return &SystemBus{
		memory:  make([]byte, BUS_MEMORY_SIZE),
		mapping: make(map[uint32][]IORegion),
	}
}

func (bus *SystemBus) MapIO(start, end uint32, onRead func(addr uint32) uint32, onWrite func(addr uint32, value uint32)) {
	/*
		MapIO registers a new memory-mapped I/O region with the bus. The
		region is specified by its start and end addresses and associated
		read/write callback functions.

		The region is appended to the mapping of every page it spans, using
		a page size of 0x100.
	*/

	region := IORegion{
		start:   start,
		end:     end,
		onRead:  onRead,
		onWrite: onWrite,
	}
	firstPage := start & PAGE_MASK
	lastPage := end & PAGE_MASK
	for page := firstPage; page <= lastPage; page += PAGE_SIZE {
		bus.mapping[page] = append(bus.mapping[page], region)
	}
}

func (bus *SystemBus) Write32(addr uint32, value uint32) {
	/*
		Write32 performs a thread-safe 32-bit write. If the target address
		falls within a registered I/O region the onWrite callback is invoked
		and the value also lands in backing memory; otherwise the value is
		written directly to memory.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end {
				region.onWrite(addr, value)
				binary.LittleEndian.PutUint32(bus.memory[addr:addr+BUS_WORD_SIZE], value)
				return
			}
		}
	}

	binary.LittleEndian.PutUint32(bus.memory[addr:addr+BUS_WORD_SIZE], value)
}

func (bus *SystemBus) Read32(addr uint32) uint32 {
	/*
		Read32 performs a thread-safe 32-bit read. If the address is within
		a registered I/O region with an onRead callback, the callback
		supplies the value; otherwise the value comes from backing memory.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onRead != nil {
				value := region.onRead(addr)
				binary.LittleEndian.PutUint32(bus.memory[addr:addr+BUS_WORD_SIZE], value)
				return value
			}
		}
	}

	return binary.LittleEndian.Uint32(bus.memory[addr : addr+BUS_WORD_SIZE])
}

func (bus *SystemBus) Reset() {
	/*
		Reset clears the bus's backing memory under the write lock.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	for i := range bus.memory {
		bus.memory[i] = 0
	}
}
