// fpu_rv.go - RISC-V F/D floating-point instruction core for IntuitionRV

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
fpu_rv.go - RISC-V F and D extension instruction semantics

This module implements the execution semantics of every RISC-V F (binary32)
and D (binary64) computational instruction as one method per instruction on
a per-hart RVFPU state structure. Decoding, the register file and trap
delivery live outside; callers hand in operand bit patterns and a 3-bit
rounding-mode selector and receive the result pattern or an
ErrIllegalInstruction fault to deliver.

Core Features:

    Sticky fflags accumulation: each instruction ORs its exception bits
    (NV, DZ, OF, UF, NX) into Fflags and never clears them; clearing is
    the CSR owner's write operation.
    Dynamic rounding: selector 7 resolves through the Frm register; the
    reserved encodings 5 and 6, whether immediate or held in Frm, fault
    before any operand is examined or any flag is touched.
    Optional enable gate for system-emulation configurations: when the
    hart's status register reports the FP unit off, every entry point
    faults with ErrIllegalInstruction.
    Fused multiply-add in all four sign variants with a single rounding,
    full conversion matrix (W/WU/L/LU both directions, binary32<->64),
    IEEE-754:2008 numeric min/max, signaling/quiet comparisons and the
    10-bit FCLASS classifier.

All arithmetic delegates to the softfloat core (fpu_softfloat.go); this
layer owns only the architectural state and the instruction-level policy.
W-form conversion results are sign-extended to the full register width the
way an RV64 hart writes 32-bit values. The L-form conversions fault on an
XLEN=32 hart, where those instructions do not exist.
*/

package main

import "errors"

// ErrIllegalInstruction is reported for reserved rounding-mode encodings,
// instructions not present on the configured XLEN, and any access while the
// enable gate is off. The caller turns it into its trap.
var ErrIllegalInstruction = errors.New("illegal instruction")

// =============================================================================
// Architectural Encodings
// =============================================================================

// fflags register bits.
const (
	FFLAGS_NX = 0x01 // inexact
	FFLAGS_UF = 0x02 // underflow
	FFLAGS_OF = 0x04 // overflow
	FFLAGS_DZ = 0x08 // divide by zero
	FFLAGS_NV = 0x10 // invalid operation
)

// Rounding-mode selector encodings (instruction rm field and frm register).
const (
	RM_RNE = 0 // round to nearest, ties to even
	RM_RTZ = 1 // round toward zero
	RM_RDN = 2 // round down
	RM_RUP = 3 // round up
	RM_RMM = 4 // round to nearest, ties away
	RM_DYN = 7 // use the frm register
)

// FCLASS result bits, one-hot.
const (
	FCLASS_NEG_INF       = 1 << 0
	FCLASS_NEG_NORMAL    = 1 << 1
	FCLASS_NEG_SUBNORMAL = 1 << 2
	FCLASS_NEG_ZERO      = 1 << 3
	FCLASS_POS_ZERO      = 1 << 4
	FCLASS_POS_SUBNORMAL = 1 << 5
	FCLASS_POS_NORMAL    = 1 << 6
	FCLASS_POS_INF       = 1 << 7
	FCLASS_SNAN          = 1 << 8
	FCLASS_QNAN          = 1 << 9
)

// Sign bits for the fused multiply-add variants, which negate operands by
// flipping the sign bit before the primitive call.
const (
	F32_SIGN uint32 = 0x80000000
	F64_SIGN uint64 = 0x8000000000000000
)

// =============================================================================
// Per-Hart State
// =============================================================================

// RVFPUConfig selects the hart-level policies fixed at construction time.
type RVFPUConfig struct {
	// XLEN is the integer register width, 32 or 64. The L/LU conversion
	// instructions exist only when it is 64.
	XLEN int

	// CheckEnable turns on the status-register gate used by system
	// emulation. User-level configurations leave it false and the unit is
	// always on.
	CheckEnable bool
}

// RVFPU is the floating-point architectural state of one hart. It is not
// safe for concurrent use; each hart owns one and calls it from its own
// dispatch loop.
type RVFPU struct {
	Fflags uint8 // sticky exception flags, fflags CSR layout
	Frm    uint8 // dynamic rounding mode, frm CSR

	// Enabled mirrors the external status register's FP bit. Only consulted
	// when the gate was configured; the status register owner toggles it.
	Enabled bool

	checkEnable bool
	xlen        int
	ctx         FloatContext
}

// NewRVFPU returns a hart FPU in the reset state: flags clear, frm RNE,
// unit enabled. An XLEN outside {32, 64} is treated as 64.
func NewRVFPU(cfg RVFPUConfig) *RVFPU {
	xlen := cfg.XLEN
	if xlen != 32 {
		xlen = 64
	}
	return &RVFPU{
		Enabled:     true,
		checkEnable: cfg.CheckEnable,
		xlen:        xlen,
	}
}

// XLEN reports the configured integer register width.
func (fp *RVFPU) XLEN() int { return fp.xlen }

// gate checks the enable policy. It runs before operands are examined so a
// disabled unit never perturbs flags.
func (fp *RVFPU) gate() error {
	if fp.checkEnable && !fp.Enabled {
		return ErrIllegalInstruction
	}
	return nil
}

// resolveRM maps the 3-bit selector to a softfloat rounding mode. 5 and 6
// are reserved; 7 defers to Frm, which must itself hold 0-4.
func (fp *RVFPU) resolveRM(rm uint8) (RoundingMode, error) {
	if rm == RM_DYN {
		rm = fp.Frm
	}
	if rm > RM_RMM {
		return 0, ErrIllegalInstruction
	}
	return RoundingMode(rm), nil
}

// begin runs the gate and rounding-mode resolution common to every rounding
// instruction and installs the resolved mode.
func (fp *RVFPU) begin(rm uint8) error {
	if err := fp.gate(); err != nil {
		return err
	}
	mode, err := fp.resolveRM(rm)
	if err != nil {
		return err
	}
	fp.ctx.Rounding = mode
	return nil
}

// accumulate folds the primitive call's transient flags into fflags. The
// softfloat flag bits share the fflags layout so this is a plain OR.
func (fp *RVFPU) accumulate() {
	fp.Fflags |= uint8(fp.ctx.Flags)
	fp.ctx.Flags = 0
}

// =============================================================================
// Fused Multiply-Add (FMADD / FMSUB / FNMSUB / FNMADD)
// =============================================================================

// FmaddS computes a*b + c with a single rounding.
func (fp *RVFPU) FmaddS(a, b, c uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd32(a, b, c, 0)
	fp.accumulate()
	return r, nil
}

// FmsubS computes a*b - c; the addend's sign bit is flipped.
func (fp *RVFPU) FmsubS(a, b, c uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd32(a, b, c^F32_SIGN, 0)
	fp.accumulate()
	return r, nil
}

// FnmsubS computes -(a*b) + c; the first operand's sign bit is flipped.
func (fp *RVFPU) FnmsubS(a, b, c uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd32(a^F32_SIGN, b, c, 0)
	fp.accumulate()
	return r, nil
}

// FnmaddS computes -(a*b) - c; both sign bits are flipped.
func (fp *RVFPU) FnmaddS(a, b, c uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd32(a^F32_SIGN, b, c^F32_SIGN, 0)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmaddD(a, b, c uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd64(a, b, c, 0)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmsubD(a, b, c uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd64(a, b, c^F64_SIGN, 0)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FnmsubD(a, b, c uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd64(a^F64_SIGN, b, c, 0)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FnmaddD(a, b, c uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.MulAdd64(a^F64_SIGN, b, c^F64_SIGN, 0)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Basic Arithmetic
// =============================================================================

func (fp *RVFPU) FaddS(a, b uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Add32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FsubS(a, b uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Sub32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmulS(a, b uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Mul32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FdivS(a, b uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Div32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FsqrtS(a uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Sqrt32(a)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FaddD(a, b uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Add64(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FsubD(a, b uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Sub64(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmulD(a, b uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Mul64(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FdivD(a, b uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Div64(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FsqrtD(a uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.Sqrt64(a)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Numeric Min / Max
// =============================================================================

// Min/max never round, so they skip the rm field entirely; a signaling NaN
// operand still raises NV through the primitive.

func (fp *RVFPU) FminS(a, b uint32) (uint32, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Min32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmaxS(a, b uint32) (uint32, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Max32(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FminD(a, b uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Min64(a, b)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FmaxD(a, b uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Max64(a, b)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Comparisons
// =============================================================================

func boolReg(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// FleS and FltS are signaling comparisons; any NaN operand raises NV and
// compares false. FeqS is quiet; only a signaling NaN raises.

func (fp *RVFPU) FleS(a, b uint32) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Le32(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

func (fp *RVFPU) FltS(a, b uint32) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Lt32(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

func (fp *RVFPU) FeqS(a, b uint32) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Eq32(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

func (fp *RVFPU) FleD(a, b uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Le64(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

func (fp *RVFPU) FltD(a, b uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Lt64(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

func (fp *RVFPU) FeqD(a, b uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	r := fp.ctx.Eq64(a, b)
	fp.accumulate()
	return boolReg(r), nil
}

// =============================================================================
// Float -> Integer Conversions
// =============================================================================

// W-form results are sign-extended through int32 to the full register width,
// including FCVT.WU, matching how an RV64 hart writes 32-bit values.

func (fp *RVFPU) FcvtWS(a uint32, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F32ToI32(a)
	fp.accumulate()
	return uint64(int64(r)), nil
}

func (fp *RVFPU) FcvtWuS(a uint32, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F32ToU32(a)
	fp.accumulate()
	return uint64(int64(int32(r))), nil
}

func (fp *RVFPU) FcvtWD(a uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F64ToI32(a)
	fp.accumulate()
	return uint64(int64(r)), nil
}

func (fp *RVFPU) FcvtWuD(a uint64, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F64ToU32(a)
	fp.accumulate()
	return uint64(int64(int32(r))), nil
}

// beginRV64 additionally rejects the L-form conversions on an XLEN=32 hart.
func (fp *RVFPU) beginRV64(rm uint8) error {
	if err := fp.gate(); err != nil {
		return err
	}
	if fp.xlen != 64 {
		return ErrIllegalInstruction
	}
	mode, err := fp.resolveRM(rm)
	if err != nil {
		return err
	}
	fp.ctx.Rounding = mode
	return nil
}

func (fp *RVFPU) FcvtLS(a uint32, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F32ToI64(a)
	fp.accumulate()
	return uint64(r), nil
}

func (fp *RVFPU) FcvtLuS(a uint32, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F32ToU64(a)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtLD(a uint64, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F64ToI64(a)
	fp.accumulate()
	return uint64(r), nil
}

func (fp *RVFPU) FcvtLuD(a uint64, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F64ToU64(a)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Integer -> Float Conversions
// =============================================================================

func (fp *RVFPU) FcvtSW(v int32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.I32ToF32(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtSWu(v uint32, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.U32ToF32(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtSL(v int64, rm uint8) (uint32, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.I64ToF32(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtSLu(v uint64, rm uint8) (uint32, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.U64ToF32(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtDW(v int32, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.I32ToF64(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtDWu(v uint32, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.U32ToF64(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtDL(v int64, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.I64ToF64(v)
	fp.accumulate()
	return r, nil
}

func (fp *RVFPU) FcvtDLu(v uint64, rm uint8) (uint64, error) {
	if err := fp.beginRV64(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.U64ToF64(v)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Float <-> Float Conversions
// =============================================================================

// FcvtSD narrows binary64 to binary32; the rm field is honoured because the
// narrowing can be inexact.
func (fp *RVFPU) FcvtSD(a uint64, rm uint8) (uint32, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F64ToF32(a)
	fp.accumulate()
	return r, nil
}

// FcvtDS widens binary32 to binary64. Always exact for finite values, but
// the reserved rm encodings still fault and NaNs still canonicalise.
func (fp *RVFPU) FcvtDS(a uint32, rm uint8) (uint64, error) {
	if err := fp.begin(rm); err != nil {
		return 0, err
	}
	r := fp.ctx.F32ToF64(a)
	fp.accumulate()
	return r, nil
}

// =============================================================================
// Classification
// =============================================================================

// fclass derives the one-hot class word from the raw encoding fields. It is
// total, never rounds and never touches flags; subnormals are classified
// from the raw zero exponent rather than the normalised parts form.
func fclass(f *floatFmt, a uint64) uint64 {
	sign := a&f.signBit != 0
	exp := (a >> f.fracBits) & f.expMask()
	frac := a & f.fracMask()

	switch {
	case exp == f.expMask() && frac == 0:
		if sign {
			return FCLASS_NEG_INF
		}
		return FCLASS_POS_INF
	case exp == f.expMask():
		if frac&f.quietBit != 0 {
			return FCLASS_QNAN
		}
		return FCLASS_SNAN
	case exp == 0 && frac == 0:
		if sign {
			return FCLASS_NEG_ZERO
		}
		return FCLASS_POS_ZERO
	case exp == 0:
		if sign {
			return FCLASS_NEG_SUBNORMAL
		}
		return FCLASS_POS_SUBNORMAL
	}
	if sign {
		return FCLASS_NEG_NORMAL
	}
	return FCLASS_POS_NORMAL
}

func (fp *RVFPU) FclassS(a uint32) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	return fclass(&fmt32, uint64(a)), nil
}

func (fp *RVFPU) FclassD(a uint64) (uint64, error) {
	if err := fp.gate(); err != nil {
		return 0, err
	}
	return fclass(&fmt64, a), nil
}
