// fpu_monitor.go - Interactive floating-point workbench for IntuitionRV

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
fpu_monitor.go - Interactive Floating-Point Workbench

A line-oriented monitor over a live RVFPU, used to probe instruction
semantics from the terminal. Each line names an instruction by its RISC-V
mnemonic followed by operands, which may be raw bit patterns (0x...) or
decimal value literals; an optional trailing rounding mode (rne, rtz, rdn,
rup, rmm, dyn or 0-7) overrides the default dynamic selector. The monitor
prints the result pattern, its decoded value, and the fflags bits the
instruction raised.

The evaluation core (Eval) is plain string-in, text-out so tests drive it
directly; Run wires it to a raw-mode terminal via golang.org/x/term.
*/

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// FPUMonitor drives one RVFPU from parsed command lines.
type FPUMonitor struct {
	fpu *RVFPU
	out io.Writer
}

func NewFPUMonitor(fpu *RVFPU) *FPUMonitor {
	return &FPUMonitor{fpu: fpu, out: os.Stdout}
}

// =============================================================================
// Operand Parsing
// =============================================================================

var rmNames = map[string]uint8{
	"rne": RM_RNE, "rtz": RM_RTZ, "rdn": RM_RDN,
	"rup": RM_RUP, "rmm": RM_RMM, "dyn": RM_DYN,
}

// parseRM consumes an optional trailing rounding-mode token. Absent means
// dynamic, the hardware default for hand-assembled code.
func parseRM(args []string, n int) (uint8, error) {
	if len(args) == n {
		return RM_DYN, nil
	}
	if len(args) != n+1 {
		return 0, fmt.Errorf("expected %d operands", n)
	}
	tok := strings.ToLower(args[n])
	if rm, ok := rmNames[tok]; ok {
		return rm, nil
	}
	v, err := strconv.ParseUint(tok, 0, 3)
	if err != nil {
		return 0, fmt.Errorf("bad rounding mode %q", tok)
	}
	return uint8(v), nil
}

// parseF32 accepts a raw bit pattern (0x...) or a decimal value literal.
func parseF32(tok string) (uint32, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		v, err := strconv.ParseUint(tok, 0, 32)
		return uint32(v), err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("bad operand %q", tok)
	}
	return math.Float32bits(float32(v)), nil
}

func parseF64(tok string) (uint64, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		return strconv.ParseUint(tok, 0, 64)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("bad operand %q", tok)
	}
	return math.Float64bits(v), nil
}

func parseInt(tok string) (uint64, error) {
	if strings.HasPrefix(tok, "-") {
		v, err := strconv.ParseInt(tok, 0, 64)
		return uint64(v), err
	}
	return strconv.ParseUint(tok, 0, 64)
}

// =============================================================================
// Result Formatting
// =============================================================================

func flagString(flags uint8) string {
	if flags == 0 {
		return "none"
	}
	var parts []string
	if flags&FFLAGS_NV != 0 {
		parts = append(parts, "NV")
	}
	if flags&FFLAGS_DZ != 0 {
		parts = append(parts, "DZ")
	}
	if flags&FFLAGS_OF != 0 {
		parts = append(parts, "OF")
	}
	if flags&FFLAGS_UF != 0 {
		parts = append(parts, "UF")
	}
	if flags&FFLAGS_NX != 0 {
		parts = append(parts, "NX")
	}
	return strings.Join(parts, "|")
}

func (m *FPUMonitor) printS(r uint32, before uint8) {
	fmt.Fprintf(m.out, "= 0x%08X  (%g)  raised: %s\n",
		r, math.Float32frombits(r), flagString(m.fpu.Fflags&^before))
}

func (m *FPUMonitor) printD(r uint64, before uint8) {
	fmt.Fprintf(m.out, "= 0x%016X  (%g)  raised: %s\n",
		r, math.Float64frombits(r), flagString(m.fpu.Fflags&^before))
}

func (m *FPUMonitor) printX(r uint64, before uint8) {
	fmt.Fprintf(m.out, "= 0x%016X  (%d)  raised: %s\n",
		r, int64(r), flagString(m.fpu.Fflags&^before))
}

// =============================================================================
// Evaluation Core
// =============================================================================

// Eval executes one monitor line and reports whether the session should
// end. All output goes to m.out.
func (m *FPUMonitor) Eval(line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return false
	}
	op := strings.ToLower(fields[0])
	args := fields[1:]

	switch op {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		m.printHelp()
		return false
	case "flags":
		fmt.Fprintf(m.out, "fflags = 0x%02X (%s)\n", m.fpu.Fflags, flagString(m.fpu.Fflags))
		return false
	case "clearflags":
		m.fpu.Fflags = 0
		fmt.Fprintln(m.out, "fflags cleared")
		return false
	case "frm":
		if len(args) == 0 {
			fmt.Fprintf(m.out, "frm = %d\n", m.fpu.Frm)
			return false
		}
		if rm, ok := rmNames[strings.ToLower(args[0])]; ok {
			m.fpu.Frm = rm
			return false
		}
		v, err := strconv.ParseUint(args[0], 0, 3)
		if err != nil {
			fmt.Fprintf(m.out, "error: bad frm value %q\n", args[0])
			return false
		}
		m.fpu.Frm = uint8(v)
		return false
	}

	if err := m.evalInstruction(op, args); err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
	}
	return false
}

func (m *FPUMonitor) evalInstruction(op string, args []string) error {
	before := m.fpu.Fflags

	switch op {

	// Three-operand fused forms.
	case "fmadd.s", "fmsub.s", "fnmsub.s", "fnmadd.s":
		rm, err := parseRM(args, 3)
		if err != nil {
			return err
		}
		ops := [3]uint32{}
		for i := 0; i < 3; i++ {
			if ops[i], err = parseF32(args[i]); err != nil {
				return err
			}
		}
		var r uint32
		switch op {
		case "fmadd.s":
			r, err = m.fpu.FmaddS(ops[0], ops[1], ops[2], rm)
		case "fmsub.s":
			r, err = m.fpu.FmsubS(ops[0], ops[1], ops[2], rm)
		case "fnmsub.s":
			r, err = m.fpu.FnmsubS(ops[0], ops[1], ops[2], rm)
		case "fnmadd.s":
			r, err = m.fpu.FnmaddS(ops[0], ops[1], ops[2], rm)
		}
		if err != nil {
			return err
		}
		m.printS(r, before)
		return nil

	case "fmadd.d", "fmsub.d", "fnmsub.d", "fnmadd.d":
		rm, err := parseRM(args, 3)
		if err != nil {
			return err
		}
		ops := [3]uint64{}
		for i := 0; i < 3; i++ {
			if ops[i], err = parseF64(args[i]); err != nil {
				return err
			}
		}
		var r uint64
		switch op {
		case "fmadd.d":
			r, err = m.fpu.FmaddD(ops[0], ops[1], ops[2], rm)
		case "fmsub.d":
			r, err = m.fpu.FmsubD(ops[0], ops[1], ops[2], rm)
		case "fnmsub.d":
			r, err = m.fpu.FnmsubD(ops[0], ops[1], ops[2], rm)
		case "fnmadd.d":
			r, err = m.fpu.FnmaddD(ops[0], ops[1], ops[2], rm)
		}
		if err != nil {
			return err
		}
		m.printD(r, before)
		return nil

	// Two-operand rounding arithmetic.
	case "fadd.s", "fsub.s", "fmul.s", "fdiv.s":
		rm, err := parseRM(args, 2)
		if err != nil {
			return err
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		b, err := parseF32(args[1])
		if err != nil {
			return err
		}
		var r uint32
		switch op {
		case "fadd.s":
			r, err = m.fpu.FaddS(a, b, rm)
		case "fsub.s":
			r, err = m.fpu.FsubS(a, b, rm)
		case "fmul.s":
			r, err = m.fpu.FmulS(a, b, rm)
		case "fdiv.s":
			r, err = m.fpu.FdivS(a, b, rm)
		}
		if err != nil {
			return err
		}
		m.printS(r, before)
		return nil

	case "fadd.d", "fsub.d", "fmul.d", "fdiv.d":
		rm, err := parseRM(args, 2)
		if err != nil {
			return err
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		b, err := parseF64(args[1])
		if err != nil {
			return err
		}
		var r uint64
		switch op {
		case "fadd.d":
			r, err = m.fpu.FaddD(a, b, rm)
		case "fsub.d":
			r, err = m.fpu.FsubD(a, b, rm)
		case "fmul.d":
			r, err = m.fpu.FmulD(a, b, rm)
		case "fdiv.d":
			r, err = m.fpu.FdivD(a, b, rm)
		}
		if err != nil {
			return err
		}
		m.printD(r, before)
		return nil

	case "fsqrt.s":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FsqrtS(a, rm)
		if err != nil {
			return err
		}
		m.printS(r, before)
		return nil

	case "fsqrt.d":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FsqrtD(a, rm)
		if err != nil {
			return err
		}
		m.printD(r, before)
		return nil

	// Min/max and comparisons take no rounding mode.
	case "fmin.s", "fmax.s", "feq.s", "flt.s", "fle.s":
		if len(args) != 2 {
			return fmt.Errorf("expected 2 operands")
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		b, err := parseF32(args[1])
		if err != nil {
			return err
		}
		switch op {
		case "fmin.s", "fmax.s":
			var r uint32
			if op == "fmin.s" {
				r, err = m.fpu.FminS(a, b)
			} else {
				r, err = m.fpu.FmaxS(a, b)
			}
			if err != nil {
				return err
			}
			m.printS(r, before)
		default:
			var r uint64
			switch op {
			case "feq.s":
				r, err = m.fpu.FeqS(a, b)
			case "flt.s":
				r, err = m.fpu.FltS(a, b)
			case "fle.s":
				r, err = m.fpu.FleS(a, b)
			}
			if err != nil {
				return err
			}
			m.printX(r, before)
		}
		return nil

	case "fmin.d", "fmax.d", "feq.d", "flt.d", "fle.d":
		if len(args) != 2 {
			return fmt.Errorf("expected 2 operands")
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		b, err := parseF64(args[1])
		if err != nil {
			return err
		}
		switch op {
		case "fmin.d", "fmax.d":
			var r uint64
			if op == "fmin.d" {
				r, err = m.fpu.FminD(a, b)
			} else {
				r, err = m.fpu.FmaxD(a, b)
			}
			if err != nil {
				return err
			}
			m.printD(r, before)
		default:
			var r uint64
			switch op {
			case "feq.d":
				r, err = m.fpu.FeqD(a, b)
			case "flt.d":
				r, err = m.fpu.FltD(a, b)
			case "fle.d":
				r, err = m.fpu.FleD(a, b)
			}
			if err != nil {
				return err
			}
			m.printX(r, before)
		}
		return nil

	case "fclass.s":
		if len(args) != 1 {
			return fmt.Errorf("expected 1 operand")
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FclassS(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "= 0x%03X\n", r)
		return nil

	case "fclass.d":
		if len(args) != 1 {
			return fmt.Errorf("expected 1 operand")
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FclassD(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "= 0x%03X\n", r)
		return nil

	// Float to integer.
	case "fcvt.w.s", "fcvt.wu.s", "fcvt.l.s", "fcvt.lu.s":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		var r uint64
		switch op {
		case "fcvt.w.s":
			r, err = m.fpu.FcvtWS(a, rm)
		case "fcvt.wu.s":
			r, err = m.fpu.FcvtWuS(a, rm)
		case "fcvt.l.s":
			r, err = m.fpu.FcvtLS(a, rm)
		case "fcvt.lu.s":
			r, err = m.fpu.FcvtLuS(a, rm)
		}
		if err != nil {
			return err
		}
		m.printX(r, before)
		return nil

	case "fcvt.w.d", "fcvt.wu.d", "fcvt.l.d", "fcvt.lu.d":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		var r uint64
		switch op {
		case "fcvt.w.d":
			r, err = m.fpu.FcvtWD(a, rm)
		case "fcvt.wu.d":
			r, err = m.fpu.FcvtWuD(a, rm)
		case "fcvt.l.d":
			r, err = m.fpu.FcvtLD(a, rm)
		case "fcvt.lu.d":
			r, err = m.fpu.FcvtLuD(a, rm)
		}
		if err != nil {
			return err
		}
		m.printX(r, before)
		return nil

	// Integer to float.
	case "fcvt.s.w", "fcvt.s.wu", "fcvt.s.l", "fcvt.s.lu":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		v, err := parseInt(args[0])
		if err != nil {
			return err
		}
		var r uint32
		switch op {
		case "fcvt.s.w":
			r, err = m.fpu.FcvtSW(int32(v), rm)
		case "fcvt.s.wu":
			r, err = m.fpu.FcvtSWu(uint32(v), rm)
		case "fcvt.s.l":
			r, err = m.fpu.FcvtSL(int64(v), rm)
		case "fcvt.s.lu":
			r, err = m.fpu.FcvtSLu(v, rm)
		}
		if err != nil {
			return err
		}
		m.printS(r, before)
		return nil

	case "fcvt.d.w", "fcvt.d.wu", "fcvt.d.l", "fcvt.d.lu":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		v, err := parseInt(args[0])
		if err != nil {
			return err
		}
		var r uint64
		switch op {
		case "fcvt.d.w":
			r, err = m.fpu.FcvtDW(int32(v), rm)
		case "fcvt.d.wu":
			r, err = m.fpu.FcvtDWu(uint32(v), rm)
		case "fcvt.d.l":
			r, err = m.fpu.FcvtDL(int64(v), rm)
		case "fcvt.d.lu":
			r, err = m.fpu.FcvtDLu(v, rm)
		}
		if err != nil {
			return err
		}
		m.printD(r, before)
		return nil

	// Width conversions.
	case "fcvt.s.d":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF64(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FcvtSD(a, rm)
		if err != nil {
			return err
		}
		m.printS(r, before)
		return nil

	case "fcvt.d.s":
		rm, err := parseRM(args, 1)
		if err != nil {
			return err
		}
		a, err := parseF32(args[0])
		if err != nil {
			return err
		}
		r, err := m.fpu.FcvtDS(a, rm)
		if err != nil {
			return err
		}
		m.printD(r, before)
		return nil
	}

	return fmt.Errorf("unknown command %q", op)
}

func (m *FPUMonitor) printHelp() {
	fmt.Fprint(m.out, `Instructions (operands: 0x<bits> or decimal value, optional rm suffix):
  fadd.s a b [rm]      fmadd.s a b c [rm]   fsqrt.s a [rm]
  fsub.s a b [rm]      fmsub.s a b c [rm]   fmin.s a b    fmax.s a b
  fmul.s a b [rm]      fnmsub.s a b c [rm]  feq.s a b     flt.s a b    fle.s a b
  fdiv.s a b [rm]      fnmadd.s a b c [rm]  fclass.s a
  fcvt.w.s / fcvt.wu.s / fcvt.l.s / fcvt.lu.s a [rm]
  fcvt.s.w / fcvt.s.wu / fcvt.s.l / fcvt.s.lu n [rm]
  fcvt.s.d a [rm]      fcvt.d.s a [rm]
  (.d forms take binary64 patterns)
Monitor:
  flags   clearflags   frm [mode]   help   quit
`)
}

// =============================================================================
// Terminal Session
// =============================================================================

// Run drives the monitor over raw-mode stdin with x/term line editing until
// the user quits. Falls back to a plain error when stdin is not a terminal.
func (m *FPUMonitor) Run() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("fpu_monitor: stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("fpu_monitor: failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, "fpu> ")

	// Route Eval output through the terminal so newline translation and
	// prompt redraw stay consistent in raw mode.
	m.out = t
	defer func() { m.out = os.Stdout }()

	fmt.Fprintln(t, "IntuitionRV floating-point monitor. Type 'help' for commands.")
	for {
		line, err := t.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if m.Eval(line) {
			return nil
		}
	}
}
