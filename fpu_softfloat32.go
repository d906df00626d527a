// fpu_softfloat32.go - binary32 primitive surface for IntuitionRV

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

// binary32 entry points of the softfloat core. Values are raw IEEE-754
// single-precision bit patterns; all rounding and flag behaviour comes from
// the owning FloatContext.

package main

// Add32 returns a + b.
func (ctx *FloatContext) Add32(a, b uint32) uint32 {
	return uint32(floatAdd(ctx, &fmt32, uint64(a), uint64(b), false))
}

// Sub32 returns a - b.
func (ctx *FloatContext) Sub32(a, b uint32) uint32 {
	return uint32(floatAdd(ctx, &fmt32, uint64(a), uint64(b), true))
}

// Mul32 returns a * b.
func (ctx *FloatContext) Mul32(a, b uint32) uint32 {
	return uint32(floatMul(ctx, &fmt32, uint64(a), uint64(b)))
}

// Div32 returns a / b.
func (ctx *FloatContext) Div32(a, b uint32) uint32 {
	return uint32(floatDiv(ctx, &fmt32, uint64(a), uint64(b)))
}

// Sqrt32 returns the square root of a.
func (ctx *FloatContext) Sqrt32(a uint32) uint32 {
	return uint32(floatSqrt(ctx, &fmt32, uint64(a)))
}

// MulAdd32 returns a*b + c with a single rounding step. opFlags is a
// combination of muladdNegProduct / muladdNegAddend; callers that pre-flip
// operand sign bits pass 0.
func (ctx *FloatContext) MulAdd32(a, b, c uint32, opFlags int) uint32 {
	return uint32(floatMulAdd(ctx, &fmt32, uint64(a), uint64(b), uint64(c), opFlags))
}

// Min32 and Max32 are the IEEE-754:2008 numeric minimum/maximum.
func (ctx *FloatContext) Min32(a, b uint32) uint32 {
	return uint32(floatMinMax(ctx, &fmt32, uint64(a), uint64(b), false))
}

func (ctx *FloatContext) Max32(a, b uint32) uint32 {
	return uint32(floatMinMax(ctx, &fmt32, uint64(a), uint64(b), true))
}

// Le32 is the signaling a <= b; any NaN operand raises invalid.
func (ctx *FloatContext) Le32(a, b uint32) bool {
	lt, eq, _ := floatCompare(ctx, &fmt32, uint64(a), uint64(b), true)
	return lt || eq
}

// Lt32 is the signaling a < b; any NaN operand raises invalid.
func (ctx *FloatContext) Lt32(a, b uint32) bool {
	lt, _, _ := floatCompare(ctx, &fmt32, uint64(a), uint64(b), true)
	return lt
}

// Eq32 is the quiet a == b; only a signaling NaN raises invalid.
func (ctx *FloatContext) Eq32(a, b uint32) bool {
	_, eq, _ := floatCompare(ctx, &fmt32, uint64(a), uint64(b), false)
	return eq
}

// Conversions to integers saturate out-of-range and NaN inputs and raise
// invalid, per the RISC-V convention.
func (ctx *FloatContext) F32ToI32(a uint32) int32 {
	return int32(floatToInt(ctx, &fmt32, uint64(a), intS32))
}

func (ctx *FloatContext) F32ToU32(a uint32) uint32 {
	return uint32(floatToInt(ctx, &fmt32, uint64(a), intU32))
}

func (ctx *FloatContext) F32ToI64(a uint32) int64 {
	return int64(floatToInt(ctx, &fmt32, uint64(a), intS64))
}

func (ctx *FloatContext) F32ToU64(a uint32) uint64 {
	return floatToInt(ctx, &fmt32, uint64(a), intU64)
}

func (ctx *FloatContext) I32ToF32(v int32) uint32 {
	return uint32(intToFloat(ctx, &fmt32, uint64(int64(v)), true))
}

func (ctx *FloatContext) U32ToF32(v uint32) uint32 {
	return uint32(intToFloat(ctx, &fmt32, uint64(v), false))
}

func (ctx *FloatContext) I64ToF32(v int64) uint32 {
	return uint32(intToFloat(ctx, &fmt32, uint64(v), true))
}

func (ctx *FloatContext) U64ToF32(v uint64) uint32 {
	return uint32(intToFloat(ctx, &fmt32, v, false))
}

// F32ToF64 widens to binary64; NaNs come out as the canonical binary64 NaN.
func (ctx *FloatContext) F32ToF64(a uint32) uint64 {
	return floatConvert(ctx, &fmt32, &fmt64, uint64(a))
}
