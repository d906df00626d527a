// fpu_softfloat64.go - binary64 primitive surface for IntuitionRV

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

// binary64 entry points of the softfloat core; the double-precision twin of
// fpu_softfloat32.go.

package main

func (ctx *FloatContext) Add64(a, b uint64) uint64 {
	return floatAdd(ctx, &fmt64, a, b, false)
}

func (ctx *FloatContext) Sub64(a, b uint64) uint64 {
	return floatAdd(ctx, &fmt64, a, b, true)
}

func (ctx *FloatContext) Mul64(a, b uint64) uint64 {
	return floatMul(ctx, &fmt64, a, b)
}

func (ctx *FloatContext) Div64(a, b uint64) uint64 {
	return floatDiv(ctx, &fmt64, a, b)
}

func (ctx *FloatContext) Sqrt64(a uint64) uint64 {
	return floatSqrt(ctx, &fmt64, a)
}

// MulAdd64 returns a*b + c with a single rounding step.
func (ctx *FloatContext) MulAdd64(a, b, c uint64, opFlags int) uint64 {
	return floatMulAdd(ctx, &fmt64, a, b, c, opFlags)
}

func (ctx *FloatContext) Min64(a, b uint64) uint64 {
	return floatMinMax(ctx, &fmt64, a, b, false)
}

func (ctx *FloatContext) Max64(a, b uint64) uint64 {
	return floatMinMax(ctx, &fmt64, a, b, true)
}

// Le64 is the signaling a <= b; any NaN operand raises invalid.
func (ctx *FloatContext) Le64(a, b uint64) bool {
	lt, eq, _ := floatCompare(ctx, &fmt64, a, b, true)
	return lt || eq
}

// Lt64 is the signaling a < b; any NaN operand raises invalid.
func (ctx *FloatContext) Lt64(a, b uint64) bool {
	lt, _, _ := floatCompare(ctx, &fmt64, a, b, true)
	return lt
}

// Eq64 is the quiet a == b; only a signaling NaN raises invalid.
func (ctx *FloatContext) Eq64(a, b uint64) bool {
	_, eq, _ := floatCompare(ctx, &fmt64, a, b, false)
	return eq
}

func (ctx *FloatContext) F64ToI32(a uint64) int32 {
	return int32(floatToInt(ctx, &fmt64, a, intS32))
}

func (ctx *FloatContext) F64ToU32(a uint64) uint32 {
	return uint32(floatToInt(ctx, &fmt64, a, intU32))
}

func (ctx *FloatContext) F64ToI64(a uint64) int64 {
	return int64(floatToInt(ctx, &fmt64, a, intS64))
}

func (ctx *FloatContext) F64ToU64(a uint64) uint64 {
	return floatToInt(ctx, &fmt64, a, intU64)
}

func (ctx *FloatContext) I32ToF64(v int32) uint64 {
	return intToFloat(ctx, &fmt64, uint64(int64(v)), true)
}

func (ctx *FloatContext) U32ToF64(v uint32) uint64 {
	return intToFloat(ctx, &fmt64, uint64(v), false)
}

func (ctx *FloatContext) I64ToF64(v int64) uint64 {
	return intToFloat(ctx, &fmt64, uint64(v), true)
}

func (ctx *FloatContext) U64ToF64(v uint64) uint64 {
	return intToFloat(ctx, &fmt64, v, false)
}

// F64ToF32 narrows to binary32 under the context's rounding mode; NaNs come
// out as the canonical (quiet) binary32 NaN.
func (ctx *FloatContext) F64ToF32(a uint64) uint32 {
	return uint32(floatConvert(ctx, &fmt64, &fmt32, a))
}
