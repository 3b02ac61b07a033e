// Package emu provides functional E20 emulation.
package emu

import "github.com/sarchlab/e20sim/insts"

// LoadStoreUnit implements E20 load and store operations. Each access is
// reported to the attached observer, if any.
type LoadStoreUnit struct {
	regFile  *RegFile
	memory   *Memory
	observer AccessObserver
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory. observer may be nil.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory, observer AccessObserver) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile:  regFile,
		memory:   memory,
		observer: observer,
	}
}

// EffectiveAddr computes ($base + sext(imm7)) & 0x1FFF.
func (lsu *LoadStoreUnit) EffectiveAddr(base uint8, imm uint16) uint16 {
	return (lsu.regFile.ReadReg(base) + insts.SignExtend7(imm)) & AddrMask
}

// LW performs $dst = mem[$base + sext(imm7)]. The access is reported even
// when $dst is $0.
func (lsu *LoadStoreUnit) LW(dst, base uint8, imm uint16) {
	addr := lsu.EffectiveAddr(base, imm)
	lsu.regFile.WriteReg(dst, lsu.memory.Read(addr))
	lsu.notify(AccessRead, addr)
}

// SW performs mem[$base + sext(imm7)] = $src.
func (lsu *LoadStoreUnit) SW(src, base uint8, imm uint16) {
	addr := lsu.EffectiveAddr(base, imm)
	lsu.memory.Write(addr, lsu.regFile.ReadReg(src))
	lsu.notify(AccessWrite, addr)
}

func (lsu *LoadStoreUnit) notify(kind AccessKind, addr uint16) {
	if lsu.observer == nil {
		return
	}
	lsu.observer.Observe(MemAccess{
		Kind: kind,
		PC:   lsu.regFile.PC,
		Addr: addr,
	})
}
