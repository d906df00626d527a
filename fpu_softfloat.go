// fpu_softfloat.go - Software IEEE-754 arithmetic core for IntuitionRV

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
fpu_softfloat.go - Software IEEE-754 binary32/binary64 arithmetic core

This module implements the arithmetic primitive layer that the RISC-V
floating-point instruction core (fpu_rv.go) delegates to. Floating-point
values are carried as raw bit patterns and never touch the host FPU; all
arithmetic is performed on integer significands so results, rounding and
exception flags are bit-exact regardless of the host.

Core Features:

    Full IEEE-754 binary32 and binary64 arithmetic: add, sub, mul, div,
    sqrt, fused multiply-add, numeric min/max, comparisons, conversions.
    All five RISC-V rounding modes (RNE, RTZ, RDN, RUP, RMM).
    Sticky exception flags (NV, DZ, OF, UF, NX) accumulated per context.
    Underflow detected with after-rounding tininess, raised only when the
    result is also inexact.
    RISC-V default-NaN behaviour: every NaN result is the canonical quiet
    NaN of the format; a signaling NaN operand raises invalid.

Technical Details:

    Operands are decomposed into a class (zero / normal / infinity / quiet
    NaN / signaling NaN), a sign, an unbiased exponent and a 64-bit
    significand normalised to [2^62, 2^63). Both widths share one engine
    parameterised by a format descriptor; the per-width entry points live
    in fpu_softfloat32.go and fpu_softfloat64.go.

    Rounding follows the classic guard/sticky scheme: the significand
    carries the format's fraction in its top bits and at least 10 spare
    round bits below. Discarded bits are jammed (OR-ed) into the lowest
    bit so stickiness survives alignment shifts without ever creating or
    destroying a round-to-nearest tie.

    The fused multiply-add keeps the exact 128-bit product, aligns the
    addend at 128 bits and performs a single rounding step. Square root
    uses a restoring digit recurrence over a 128-bit radicand.

Each FloatContext is owned by exactly one emulated processor and calls are
made synchronously from its dispatch loop; no locking is required here.
*/

package main

import (
	"math/bits"
)

// =============================================================================
// Rounding Modes and Exception Flags
// =============================================================================

// RoundingMode selects how inexact results are rounded. The numeric values
// deliberately match the RISC-V rm field encodings 0-4.
type RoundingMode uint8

const (
	RoundNearestEven RoundingMode = 0 // RNE: ties to even
	RoundToZero      RoundingMode = 1 // RTZ: truncate
	RoundDown        RoundingMode = 2 // RDN: toward negative infinity
	RoundUp          RoundingMode = 3 // RUP: toward positive infinity
	RoundNearestAway RoundingMode = 4 // RMM: ties away from zero
)

// ExcFlags is the transient sticky exception set of a FloatContext. The bit
// positions match the RISC-V fflags register so the instruction layer can
// fold them in with a plain OR.
type ExcFlags uint8

const (
	ExcInexact   ExcFlags = 1 << 0 // NX
	ExcUnderflow ExcFlags = 1 << 1 // UF
	ExcOverflow  ExcFlags = 1 << 2 // OF
	ExcDivByZero ExcFlags = 1 << 3 // DZ
	ExcInvalid   ExcFlags = 1 << 4 // NV
)

// FloatContext carries the rounding mode and the transient sticky flags for
// one emulated processor. Operations only ever OR into Flags; the caller
// reads and clears them after each primitive call.
type FloatContext struct {
	Rounding RoundingMode
	Flags    ExcFlags
}

func (ctx *FloatContext) raise(f ExcFlags) {
	ctx.Flags |= f
}

// =============================================================================
// Format Descriptors
// =============================================================================

type floatFmt struct {
	expBits  uint
	fracBits uint
	bias     int
	signBit  uint64
	quietBit uint64 // MSB of the fraction; set on quiet NaNs
	defNaN   uint64 // canonical quiet NaN of the format
}

func (f *floatFmt) expMask() uint64  { return (1 << f.expBits) - 1 }
func (f *floatFmt) fracMask() uint64 { return (1 << f.fracBits) - 1 }

// roundShift is the number of spare round bits below the fraction when the
// significand is normalised to bit 62.
func (f *floatFmt) roundShift() uint { return 62 - f.fracBits }

var fmt32 = floatFmt{
	expBits:  8,
	fracBits: 23,
	bias:     127,
	signBit:  1 << 31,
	quietBit: 1 << 22,
	defNaN:   0x7FC00000,
}

var fmt64 = floatFmt{
	expBits:  11,
	fracBits: 52,
	bias:     1023,
	signBit:  1 << 63,
	quietBit: 1 << 51,
	defNaN:   0x7FF8000000000000,
}

// =============================================================================
// Decomposed Values
// =============================================================================

type floatClass uint8

const (
	clsZero floatClass = iota
	clsNormal
	clsInf
	clsQNaN
	clsSNaN
)

// floatParts is a decomposed floating-point value. For clsNormal the value
// is sig/2^62 * 2^exp with sig in [2^62, 2^63); exp is unbiased.
type floatParts struct {
	cls  floatClass
	sign bool
	exp  int
	sig  uint64
}

func (p *floatParts) isNaN() bool  { return p.cls == clsQNaN || p.cls == clsSNaN }
func (p *floatParts) isSNaN() bool { return p.cls == clsSNaN }

// unpack decomposes a bit pattern (already masked to the format's width).
// Subnormals are normalised into the uniform clsNormal shape.
func unpack(f *floatFmt, a uint64) floatParts {
	var p floatParts
	p.sign = a&f.signBit != 0
	exp := int((a >> f.fracBits) & f.expMask())
	frac := a & f.fracMask()

	switch {
	case exp == int(f.expMask()):
		if frac == 0 {
			p.cls = clsInf
		} else if frac&f.quietBit != 0 {
			p.cls = clsQNaN
		} else {
			p.cls = clsSNaN
		}
	case exp == 0:
		if frac == 0 {
			p.cls = clsZero
		} else {
			// Subnormal: shift the fraction up until the leading one sits
			// at bit 62, tracking the exponent adjustment.
			p.cls = clsNormal
			s := frac << f.roundShift()
			lz := bits.LeadingZeros64(s)
			p.sig = s << uint(lz-1)
			p.exp = 1 - f.bias - (lz - 1)
		}
	default:
		p.cls = clsNormal
		p.sig = ((1 << f.fracBits) | frac) << f.roundShift()
		p.exp = exp - f.bias
	}
	return p
}

func packZero(f *floatFmt, sign bool) uint64 {
	if sign {
		return f.signBit
	}
	return 0
}

func packInf(f *floatFmt, sign bool) uint64 {
	r := f.expMask() << f.fracBits
	if sign {
		r |= f.signBit
	}
	return r
}

func packMaxFinite(f *floatFmt, sign bool) uint64 {
	r := ((f.expMask() - 1) << f.fracBits) | f.fracMask()
	if sign {
		r |= f.signBit
	}
	return r
}

// propagateNaN implements the default-NaN policy: the result of any NaN case
// is the canonical NaN, and a signaling NaN operand raises invalid.
func propagateNaN(ctx *FloatContext, f *floatFmt, ps ...*floatParts) uint64 {
	for _, p := range ps {
		if p.isSNaN() {
			ctx.raise(ExcInvalid)
			break
		}
	}
	return f.defNaN
}

func invalidNaN(ctx *FloatContext, f *floatFmt) uint64 {
	ctx.raise(ExcInvalid)
	return f.defNaN
}

// =============================================================================
// Shift / 128-bit Helpers
// =============================================================================

// shiftRightJam shifts v right by n, OR-ing any discarded non-zero bits into
// the result's lowest bit so stickiness is preserved.
func shiftRightJam(v uint64, n int) uint64 {
	if n <= 0 {
		return v
	}
	if n >= 64 {
		if v != 0 {
			return 1
		}
		return 0
	}
	r := v >> uint(n)
	if v&((1<<uint(n))-1) != 0 {
		r |= 1
	}
	return r
}

type uint128 struct {
	hi, lo uint64
}

func (a uint128) add(b uint128) uint128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, carry)
	return uint128{hi, lo}
}

func (a uint128) sub(b uint128) uint128 {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi, _ := bits.Sub64(a.hi, b.hi, borrow)
	return uint128{hi, lo}
}

func (a uint128) cmp(b uint128) int {
	switch {
	case a.hi > b.hi:
		return 1
	case a.hi < b.hi:
		return -1
	case a.lo > b.lo:
		return 1
	case a.lo < b.lo:
		return -1
	}
	return 0
}

func (a uint128) isZero() bool { return a.hi == 0 && a.lo == 0 }

func (a uint128) shl(n uint) uint128 {
	switch {
	case n == 0:
		return a
	case n >= 64:
		return uint128{a.lo << (n - 64), 0}
	}
	return uint128{a.hi<<n | a.lo>>(64-n), a.lo << n}
}

func (a uint128) leadingZeros() int {
	if a.hi != 0 {
		return bits.LeadingZeros64(a.hi)
	}
	return 64 + bits.LeadingZeros64(a.lo)
}

// shiftRightJam128 is the 128-bit counterpart of shiftRightJam.
func shiftRightJam128(a uint128, n int) uint128 {
	switch {
	case n <= 0:
		return a
	case n >= 128:
		if !a.isZero() {
			return uint128{0, 1}
		}
		return uint128{0, 0}
	case n >= 64:
		r := uint128{0, a.hi >> uint(n-64)}
		sticky := a.lo != 0
		if n > 64 && a.hi&((1<<uint(n-64))-1) != 0 {
			sticky = true
		}
		if sticky {
			r.lo |= 1
		}
		return r
	}
	r := uint128{a.hi >> uint(n), a.hi<<uint(64-n) | a.lo>>uint(n)}
	if a.lo&((1<<uint(n))-1) != 0 {
		r.lo |= 1
	}
	return r
}

// =============================================================================
// Rounding and Packing
// =============================================================================

// roundIncrement returns the value added to the significand before the final
// shift, per rounding mode. half is 1 << (roundShift-1), mask is the full
// round-bit mask.
func roundIncrement(mode RoundingMode, sign bool, half, mask uint64) uint64 {
	switch mode {
	case RoundNearestEven, RoundNearestAway:
		return half
	case RoundToZero:
		return 0
	case RoundDown:
		if sign {
			return mask
		}
		return 0
	case RoundUp:
		if sign {
			return 0
		}
		return mask
	}
	return half
}

// overflowsToInf reports whether an overflow in the given direction produces
// an infinity (as opposed to the format's largest finite value).
func overflowsToInf(mode RoundingMode, sign bool) bool {
	switch mode {
	case RoundNearestEven, RoundNearestAway:
		return true
	case RoundToZero:
		return false
	case RoundDown:
		return sign
	case RoundUp:
		return !sign
	}
	return true
}

// roundPack rounds a normalised (sign, exp, sig) triple into a packed bit
// pattern, raising overflow/underflow/inexact as required. sig must be in
// [2^62, 2^63); exp is unbiased.
func roundPack(ctx *FloatContext, f *floatFmt, sign bool, exp int, sig uint64) uint64 {
	shift := f.roundShift()
	mask := uint64(1)<<shift - 1
	half := uint64(1) << (shift - 1)
	inc := roundIncrement(ctx.Rounding, sign, half, mask)

	expS := exp + f.bias
	maxExp := int(f.expMask()) - 1

	if expS > maxExp || (expS == maxExp && sig+inc >= 1<<63) {
		ctx.raise(ExcOverflow | ExcInexact)
		if overflowsToInf(ctx.Rounding, sign) {
			return packInf(f, sign)
		}
		return packMaxFinite(f, sign)
	}

	if expS <= 0 {
		// Tininess is judged after rounding: the value is tiny unless it
		// rounds up into the smallest normal.
		isTiny := expS < 0 || sig+inc < 1<<63
		sig = shiftRightJam(sig, 1-expS)
		expS = 1
		if isTiny && sig&mask != 0 {
			ctx.raise(ExcUnderflow)
		}
	}

	roundBits := sig & mask
	sig = (sig + inc) >> shift
	if roundBits != 0 {
		ctx.raise(ExcInexact)
	}
	if ctx.Rounding == RoundNearestEven && roundBits == half {
		sig &^= 1 // exact tie: force even
	}

	r := (uint64(expS-1) << f.fracBits) + sig
	if sign {
		r |= f.signBit
	}
	return r
}

// repackExact re-encodes an already-exact decomposed value. Used when an
// operation's result is one of its operands (e.g. x + 0).
func repackExact(ctx *FloatContext, f *floatFmt, p floatParts) uint64 {
	switch p.cls {
	case clsZero:
		return packZero(f, p.sign)
	case clsInf:
		return packInf(f, p.sign)
	}
	return roundPack(ctx, f, p.sign, p.exp, p.sig)
}

// =============================================================================
// Addition / Subtraction
// =============================================================================

// floatAdd computes a + b (or a - b when subtract is set) with one rounding.
func floatAdd(ctx *FloatContext, f *floatFmt, ua, ub uint64, subtract bool) uint64 {
	a := unpack(f, ua)
	b := unpack(f, ub)
	bSign := b.sign != subtract

	if a.isNaN() || b.isNaN() {
		return propagateNaN(ctx, f, &a, &b)
	}
	if a.cls == clsInf || b.cls == clsInf {
		if a.cls == clsInf && b.cls == clsInf {
			if a.sign != bSign {
				return invalidNaN(ctx, f)
			}
			return packInf(f, a.sign)
		}
		if a.cls == clsInf {
			return packInf(f, a.sign)
		}
		return packInf(f, bSign)
	}
	if a.cls == clsZero && b.cls == clsZero {
		if a.sign == bSign {
			return packZero(f, a.sign)
		}
		return packZero(f, ctx.Rounding == RoundDown)
	}
	if a.cls == clsZero {
		b.sign = bSign
		return repackExact(ctx, f, b)
	}
	if b.cls == clsZero {
		return repackExact(ctx, f, a)
	}

	if a.sign == bSign {
		return addMags(ctx, f, a.sign, a.exp, a.sig, b.exp, b.sig)
	}
	return subMags(ctx, f, a.sign, a.exp, a.sig, bSign, b.exp, b.sig)
}

func addMags(ctx *FloatContext, f *floatFmt, sign bool, ea int, sa uint64, eb int, sb uint64) uint64 {
	if ea < eb {
		ea, eb = eb, ea
		sa, sb = sb, sa
	}
	sb = shiftRightJam(sb, ea-eb)
	sum := sa + sb
	if sum >= 1<<63 {
		sum = sum>>1 | (sum & 1)
		ea++
	}
	return roundPack(ctx, f, sign, ea, sum)
}

func subMags(ctx *FloatContext, f *floatFmt, signA bool, ea int, sa uint64, signB bool, eb int, sb uint64) uint64 {
	// Order so (ea, sa) is the larger magnitude; the result takes its sign.
	sign := signA
	if eb > ea || (eb == ea && sb > sa) {
		ea, eb = eb, ea
		sa, sb = sb, sa
		sign = signB
	}
	d := ea - eb

	switch {
	case d == 0:
		diff := sa - sb
		if diff == 0 {
			// Exact cancellation: +0 except toward-negative rounding.
			return packZero(f, ctx.Rounding == RoundDown)
		}
		lz := bits.LeadingZeros64(diff)
		return roundPack(ctx, f, sign, ea-(lz-1), diff<<uint(lz-1))

	case d == 1:
		// One exponent apart: double the larger so the subtraction is exact.
		wide := (sa << 1) - sb
		if wide >= 1<<63 {
			return roundPack(ctx, f, sign, ea, wide>>1|(wide&1))
		}
		lz := bits.LeadingZeros64(wide)
		return roundPack(ctx, f, sign, ea-1-(lz-1), wide<<uint(lz-1))

	default:
		// Far apart: the jammed shift keeps stickiness and cancellation is
		// limited to a single bit of normalisation.
		diff := sa - shiftRightJam(sb, d)
		if diff < 1<<62 {
			return roundPack(ctx, f, sign, ea-1, diff<<1)
		}
		return roundPack(ctx, f, sign, ea, diff)
	}
}

// =============================================================================
// Multiplication
// =============================================================================

func floatMul(ctx *FloatContext, f *floatFmt, ua, ub uint64) uint64 {
	a := unpack(f, ua)
	b := unpack(f, ub)
	sign := a.sign != b.sign

	if a.isNaN() || b.isNaN() {
		return propagateNaN(ctx, f, &a, &b)
	}
	if a.cls == clsInf || b.cls == clsInf {
		if a.cls == clsZero || b.cls == clsZero {
			return invalidNaN(ctx, f)
		}
		return packInf(f, sign)
	}
	if a.cls == clsZero || b.cls == clsZero {
		return packZero(f, sign)
	}

	exp := a.exp + b.exp
	hi, lo := bits.Mul64(a.sig, b.sig)
	// Product of two [2^62, 2^63) significands is [2^124, 2^126); fold it
	// back to 63 bits with the low word jammed in.
	sig := hi<<2 | lo>>62
	if lo&(1<<62-1) != 0 {
		sig |= 1
	}
	if sig >= 1<<63 {
		sig = sig>>1 | (sig & 1)
		exp++
	}
	return roundPack(ctx, f, sign, exp, sig)
}

// =============================================================================
// Division
// =============================================================================

func floatDiv(ctx *FloatContext, f *floatFmt, ua, ub uint64) uint64 {
	a := unpack(f, ua)
	b := unpack(f, ub)
	sign := a.sign != b.sign

	if a.isNaN() || b.isNaN() {
		return propagateNaN(ctx, f, &a, &b)
	}
	if a.cls == clsInf {
		if b.cls == clsInf {
			return invalidNaN(ctx, f)
		}
		return packInf(f, sign)
	}
	if b.cls == clsInf {
		return packZero(f, sign)
	}
	if b.cls == clsZero {
		if a.cls == clsZero {
			return invalidNaN(ctx, f)
		}
		ctx.raise(ExcDivByZero)
		return packInf(f, sign)
	}
	if a.cls == clsZero {
		return packZero(f, sign)
	}

	exp := a.exp - b.exp
	// Quotient of sig*2^63 by the divisor gives 63-64 significant bits;
	// the remainder supplies the sticky bit.
	q, r := bits.Div64(a.sig>>1, a.sig<<63, b.sig)
	sticky := r != 0
	if q >= 1<<63 {
		if q&1 != 0 {
			sticky = true
		}
		q >>= 1
	} else {
		exp--
	}
	if sticky {
		q |= 1
	}
	return roundPack(ctx, f, sign, exp, q)
}

// =============================================================================
// Square Root
// =============================================================================

func floatSqrt(ctx *FloatContext, f *floatFmt, ua uint64) uint64 {
	a := unpack(f, ua)

	if a.isNaN() {
		return propagateNaN(ctx, f, &a)
	}
	if a.cls == clsZero {
		return packZero(f, a.sign)
	}
	if a.sign {
		return invalidNaN(ctx, f)
	}
	if a.cls == clsInf {
		return packInf(f, false)
	}

	// Fold the exponent's parity into the radicand so the root's
	// significand lands in [2^62, 2^63).
	var m uint128
	if a.exp&1 != 0 {
		m = uint128{a.sig >> 1, a.sig << 63}
	} else {
		m = uint128{a.sig >> 2, a.sig << 62}
	}
	exp := a.exp >> 1

	root, rem := sqrt128(m)
	if !rem.isZero() {
		root |= 1
	}
	return roundPack(ctx, f, false, exp, root)
}

// sqrt128 computes the integer square root of a 128-bit radicand by
// restoring digit recurrence, returning the 64-bit root and the remainder.
func sqrt128(m uint128) (uint64, uint128) {
	var root uint64
	var rem uint128
	for i := 63; i >= 0; i-- {
		var pair uint64
		if i >= 32 {
			pair = (m.hi >> uint(2*i-64)) & 3
		} else {
			pair = (m.lo >> uint(2*i)) & 3
		}
		rem = rem.shl(2)
		rem.lo |= pair
		trial := uint128{root >> 62, root<<2 | 1}
		if rem.cmp(trial) >= 0 {
			rem = rem.sub(trial)
			root = root<<1 | 1
		} else {
			root = root << 1
		}
	}
	return root, rem
}

// =============================================================================
// Fused Multiply-Add
// =============================================================================

// muladd sign-manipulation flags. The RISC-V layer always passes 0 and flips
// operand sign bits itself; the flags exist for direct users of the core.
const (
	muladdNegProduct = 1 << 0
	muladdNegAddend  = 1 << 1
)

// floatMulAdd computes a*b + c with a single rounding step.
func floatMulAdd(ctx *FloatContext, f *floatFmt, ua, ub, uc uint64, opFlags int) uint64 {
	a := unpack(f, ua)
	b := unpack(f, ub)
	c := unpack(f, uc)

	signP := a.sign != b.sign
	if opFlags&muladdNegProduct != 0 {
		signP = !signP
	}
	if opFlags&muladdNegAddend != 0 {
		c.sign = !c.sign
	}

	infP := a.cls == clsInf || b.cls == clsInf
	zeroP := a.cls == clsZero || b.cls == clsZero

	// inf * 0 is invalid even when the addend is a NaN.
	if (a.cls == clsInf && b.cls == clsZero) || (a.cls == clsZero && b.cls == clsInf) {
		if c.isSNaN() {
			return propagateNaN(ctx, f, &c)
		}
		return invalidNaN(ctx, f)
	}
	if a.isNaN() || b.isNaN() || c.isNaN() {
		return propagateNaN(ctx, f, &a, &b, &c)
	}
	if infP {
		if c.cls == clsInf && c.sign != signP {
			return invalidNaN(ctx, f)
		}
		return packInf(f, signP)
	}
	if c.cls == clsInf {
		return packInf(f, c.sign)
	}
	if zeroP {
		if c.cls == clsZero {
			if signP == c.sign {
				return packZero(f, signP)
			}
			return packZero(f, ctx.Rounding == RoundDown)
		}
		return repackExact(ctx, f, c)
	}

	// Exact product, normalised to bit 126 of a 128-bit significand.
	expP := a.exp + b.exp
	hi, lo := bits.Mul64(a.sig, b.sig)
	prod := uint128{hi, lo}
	if prod.hi >= 1<<61 {
		prod = prod.shl(1)
		expP++
	} else {
		prod = prod.shl(2)
	}

	if c.cls == clsZero {
		return roundPack(ctx, f, signP, expP, fold128(prod))
	}

	addend := uint128{c.sig, 0} // c.sig's leading bit at 126
	expC := c.exp

	if signP == c.sign {
		// Magnitude addition.
		exp := expP
		if expP >= expC {
			addend = shiftRightJam128(addend, expP-expC)
		} else {
			exp = expC
			prod = shiftRightJam128(prod, expC-expP)
		}
		sum := prod.add(addend)
		if sum.hi >= 1<<63 {
			sum = shiftRightJam128(sum, 1)
			exp++
		}
		return roundPack(ctx, f, signP, exp, fold128(sum))
	}

	// Magnitude subtraction.
	sign := signP
	exp := expP
	large, small := prod, addend
	if expC > expP || (expC == expP && addend.cmp(prod) > 0) {
		large, small = addend, prod
		sign = c.sign
		exp = expC
	}
	d := expP - expC
	if d < 0 {
		d = -d
	}

	var diff uint128
	switch {
	case d == 0:
		diff = large.sub(small)
		if diff.isZero() {
			return packZero(f, ctx.Rounding == RoundDown)
		}
	case d == 1:
		wide := large.shl(1).sub(small)
		if wide.hi >= 1<<63 {
			diff = shiftRightJam128(wide, 1)
		} else {
			diff = wide
			exp--
		}
	default:
		diff = large.sub(shiftRightJam128(small, d))
	}

	lz := diff.leadingZeros()
	if lz > 1 {
		// Cancellation: renormalise to bit 126. Left shifts are exact for
		// the d<=1 paths and only move the jam bit for d>=2, where it
		// stays far below the round position.
		diff = diff.shl(uint(lz - 1))
		exp -= lz - 1
	}
	return roundPack(ctx, f, sign, exp, fold128(diff))
}

// fold128 reduces a 128-bit significand normalised to bit 126 into the
// 63-bit form roundPack expects, jamming the low word.
func fold128(v uint128) uint64 {
	sig := v.hi
	if v.lo != 0 {
		sig |= 1
	}
	return sig
}

// =============================================================================
// Comparison
// =============================================================================

// floatCompare orders two values. ordered is false when either operand is a
// NaN; signaling comparisons raise invalid on any NaN, quiet ones only on a
// signaling NaN.
func floatCompare(ctx *FloatContext, f *floatFmt, ua, ub uint64, signaling bool) (lt, eq, ordered bool) {
	a := unpack(f, ua)
	b := unpack(f, ub)

	if a.isNaN() || b.isNaN() {
		if signaling || a.isSNaN() || b.isSNaN() {
			ctx.raise(ExcInvalid)
		}
		return false, false, false
	}
	if a.cls == clsZero && b.cls == clsZero {
		return false, true, true
	}
	if a.sign != b.sign {
		return a.sign, false, true
	}

	// Same sign: magnitudes compare as plain integers on the non-sign bits.
	magA := ua &^ f.signBit
	magB := ub &^ f.signBit
	if magA == magB {
		return false, true, true
	}
	if a.sign {
		return magA > magB, false, true
	}
	return magA < magB, false, true
}

// =============================================================================
// Numeric Min / Max
// =============================================================================

// floatMinMax implements IEEE-754:2008 minNum/maxNum: a single quiet NaN
// yields the other operand, both NaNs yield the canonical NaN, and any
// signaling NaN raises invalid with a canonical NaN result.
func floatMinMax(ctx *FloatContext, f *floatFmt, ua, ub uint64, isMax bool) uint64 {
	a := unpack(f, ua)
	b := unpack(f, ub)

	if a.isSNaN() || b.isSNaN() {
		ctx.raise(ExcInvalid)
		return f.defNaN
	}
	if a.isNaN() && b.isNaN() {
		return f.defNaN
	}
	if a.isNaN() {
		return ub
	}
	if b.isNaN() {
		return ua
	}

	if a.cls == clsZero && b.cls == clsZero {
		// -0 orders below +0.
		if isMax {
			if a.sign && b.sign {
				return packZero(f, true)
			}
			return packZero(f, false)
		}
		if a.sign || b.sign {
			return packZero(f, true)
		}
		return packZero(f, false)
	}

	lt, _, _ := floatCompare(ctx, f, ua, ub, false)
	if lt != isMax {
		return ua
	}
	return ub
}

// =============================================================================
// Float -> Integer Conversion
// =============================================================================

type intKind uint8

const (
	intS32 intKind = iota
	intU32
	intS64
	intU64
)

// intConvMax returns the RISC-V saturation value for NaN and positive
// overflow: the largest representable value of the target type.
func intConvMax(k intKind) uint64 {
	switch k {
	case intS32:
		return 0x7FFFFFFF
	case intU32:
		return 0xFFFFFFFF
	case intS64:
		return 0x7FFFFFFFFFFFFFFF
	}
	return 0xFFFFFFFFFFFFFFFF
}

// intConvMin returns the saturation value for negative overflow.
func intConvMin(k intKind) uint64 {
	switch k {
	case intS32:
		return 0xFFFFFFFF80000000 // int32 min, sign-extended
	case intS64:
		return 0x8000000000000000
	}
	return 0 // unsigned types clamp at zero
}

// floatToInt converts a floating-point bit pattern to an integer of the
// given kind under the context's rounding mode. Out-of-range inputs and
// NaNs saturate and raise invalid (suppressing inexact).
func floatToInt(ctx *FloatContext, f *floatFmt, ua uint64, k intKind) uint64 {
	a := unpack(f, ua)

	switch a.cls {
	case clsQNaN, clsSNaN:
		ctx.raise(ExcInvalid)
		return intConvMax(k)
	case clsInf:
		ctx.raise(ExcInvalid)
		if a.sign {
			return intConvMin(k)
		}
		return intConvMax(k)
	case clsZero:
		return 0
	}

	mag, inexact, huge := roundMagToInt(ctx.Rounding, a.sign, a.exp, a.sig)
	if huge {
		ctx.raise(ExcInvalid)
		if a.sign {
			return intConvMin(k)
		}
		return intConvMax(k)
	}

	switch k {
	case intS32:
		if !a.sign && mag > 0x7FFFFFFF {
			ctx.raise(ExcInvalid)
			return intConvMax(k)
		}
		if a.sign && mag > 0x80000000 {
			ctx.raise(ExcInvalid)
			return intConvMin(k)
		}
	case intU32:
		if a.sign && mag != 0 {
			ctx.raise(ExcInvalid)
			return 0
		}
		if mag > 0xFFFFFFFF {
			ctx.raise(ExcInvalid)
			return intConvMax(k)
		}
	case intS64:
		if !a.sign && mag > 0x7FFFFFFFFFFFFFFF {
			ctx.raise(ExcInvalid)
			return intConvMax(k)
		}
		if a.sign && mag > 1<<63 {
			ctx.raise(ExcInvalid)
			return intConvMin(k)
		}
	case intU64:
		if a.sign && mag != 0 {
			ctx.raise(ExcInvalid)
			return 0
		}
	}

	if inexact {
		ctx.raise(ExcInexact)
	}
	if a.sign {
		return -mag
	}
	return mag
}

// roundMagToInt rounds the magnitude sig*2^(exp-62) to an integer. huge is
// set when the magnitude cannot fit any supported integer type.
func roundMagToInt(mode RoundingMode, sign bool, exp int, sig uint64) (mag uint64, inexact, huge bool) {
	switch {
	case exp >= 64:
		return 0, false, true
	case exp == 63:
		return sig << 1, false, false // exact: low bit of sig*2 is zero
	case exp <= -2:
		// Magnitude below one half: rounds to zero except away-directed
		// modes, which produce one.
		if mode == RoundUp && !sign || mode == RoundDown && sign {
			return 1, true, false
		}
		return 0, true, false
	}

	shift := uint(62 - exp) // 0..63
	if shift == 0 {
		return sig, false, false
	}
	mask := uint64(1)<<shift - 1
	half := uint64(1) << (shift - 1)
	roundBits := sig & mask
	mag = sig >> shift

	switch mode {
	case RoundNearestEven:
		if roundBits > half || (roundBits == half && mag&1 != 0) {
			mag++
		}
	case RoundNearestAway:
		if roundBits >= half {
			mag++
		}
	case RoundDown:
		if sign && roundBits != 0 {
			mag++
		}
	case RoundUp:
		if !sign && roundBits != 0 {
			mag++
		}
	}
	return mag, roundBits != 0, false
}

// =============================================================================
// Integer -> Float Conversion
// =============================================================================

// intToFloat converts a two's-complement or unsigned integer to the target
// format under the context's rounding mode.
func intToFloat(ctx *FloatContext, f *floatFmt, v uint64, signed bool) uint64 {
	if v == 0 {
		return packZero(f, false)
	}
	sign := false
	mag := v
	if signed && int64(v) < 0 {
		sign = true
		mag = -v
	}

	lz := bits.LeadingZeros64(mag)
	s := mag << uint(lz)
	sig := s>>1 | (s & 1)
	exp := 63 - lz
	return roundPack(ctx, f, sign, exp, sig)
}

// =============================================================================
// Float <-> Float Conversion
// =============================================================================

// floatConvert re-rounds a value from one binary format into another. NaNs
// become the destination's canonical quiet NaN (invalid on signaling input).
func floatConvert(ctx *FloatContext, from, to *floatFmt, ua uint64) uint64 {
	a := unpack(from, ua)

	switch a.cls {
	case clsQNaN, clsSNaN:
		return propagateNaN(ctx, to, &a)
	case clsInf:
		return packInf(to, a.sign)
	case clsZero:
		return packZero(to, a.sign)
	}
	return roundPack(ctx, to, a.sign, a.exp, a.sig)
}
