// device_test_finisher.go - Test finisher MMIO device for IntuitionRV

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
device_test_finisher.go - Simulation Exit Device

A single 32-bit write register that ends the simulation, modelled on the
finisher device RISC-V test firmware expects. Writing 0x5555 reports a
pass and exits with status 0; writing (code << 16) | 0x3333 reports a
failure and exits with the code (a code of zero is coerced to 1 so the
failure stays visible to the invoking shell). Any other value is ignored.

The exit itself goes through an injectable ExitFunc so tests can observe
the outcome without the process terminating.
*/

package main

import (
	"fmt"
	"os"
)

const (
	FINISHER_PASS uint32 = 0x5555
	FINISHER_FAIL uint32 = 0x3333
)

// TestFinisher is the simulation-exit device. One instance maps one 32-bit
// register on the bus at the configured base address.
type TestFinisher struct {
	base uint32

	// ExitFunc receives the process exit status. Defaults to os.Exit;
	// tests substitute their own to capture the status.
	ExitFunc func(status int)
}

func NewTestFinisher(base uint32) *TestFinisher {
	return &TestFinisher{
		base:     base,
		ExitFunc: os.Exit,
	}
}

// Attach maps the finisher's register onto the bus. Reads return zero.
func (tf *TestFinisher) Attach(bus MemoryBus) {
	if sb, ok := bus.(*SystemBus); ok {
		sb.MapIO(tf.base, tf.base+3, nil, func(addr uint32, value uint32) {
			tf.handleWrite(value)
		})
	}
}

// handleWrite decodes a register write. The low 16 bits select the command;
// the high 16 bits carry the failure code.
func (tf *TestFinisher) handleWrite(value uint32) {
	switch value & 0xFFFF {
	case FINISHER_PASS:
		fmt.Println("finisher: PASS")
		tf.ExitFunc(0)
	case FINISHER_FAIL:
		code := int(value >> 16)
		if code == 0 {
			code = 1
		}
		fmt.Fprintf(os.Stderr, "finisher: FAIL (code %d)\n", code)
		tf.ExitFunc(code)
	}
}
