package emu_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/insts"
)

type accessRecorder struct {
	accesses []emu.MemAccess
}

func (r *accessRecorder) Observe(access emu.MemAccess) {
	r.accesses = append(r.accesses, access)
}

var _ = Describe("Emulator", func() {
	var (
		e        *emu.Emulator
		recorder *accessRecorder
	)

	load := func(words ...uint16) {
		Expect(e.LoadProgram(words)).To(Succeed())
	}

	BeforeEach(func() {
		recorder = &accessRecorder{}
		e = emu.NewEmulator(emu.WithAccessObserver(recorder))
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Halted()).To(BeFalse())
		})
	})

	Describe("LoadProgram", func() {
		It("should reset the PC to 0", func() {
			e.RegFile().PC = 42
			load(insts.EncodeJ(0))
			Expect(e.RegFile().PC).To(Equal(uint16(0)))
		})

		It("should reject oversized programs", func() {
			err := e.LoadProgram(make([]uint16, emu.MemSize+1))
			Expect(err).To(MatchError(emu.ErrProgramTooLarge))
		})
	})

	Describe("End-to-end programs", func() {
		It("should halt immediately on j 0", func() {
			load(insts.EncodeJ(0))

			result := e.Step()

			Expect(result.Err).To(BeNil())
			Expect(result.Halted).To(BeTrue())
			Expect(e.RegFile().PC).To(Equal(uint16(0)))
			Expect(e.RegFile().R).To(Equal([emu.NumRegs]uint16{}))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should add two immediates", func() {
			load(
				insts.EncodeADDI(1, 0, 5),
				insts.EncodeADDI(2, 0, 3),
				insts.EncodeADD(3, 1, 2),
				insts.EncodeJ(3),
			)

			Expect(e.Run()).To(Succeed())

			Expect(e.Halted()).To(BeTrue())
			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(8)))
			Expect(e.RegFile().PC).To(Equal(uint16(3)))
			Expect(e.InstructionCount()).To(Equal(uint64(4)))
		})

		It("should count down a loop", func() {
			// 0: addi $1,$0,10
			// 1: jeq  $1,$0,2   -> 4
			// 2: addi $1,$1,-1
			// 3: j 1
			// 4: j 4
			load(
				insts.EncodeADDI(1, 0, 10),
				insts.EncodeJEQ(1, 0, 2),
				insts.EncodeADDI(1, 1, -1),
				insts.EncodeJ(1),
				insts.EncodeJ(4),
			)

			Expect(e.Run()).To(Succeed())
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0)))
			Expect(e.RegFile().PC).To(Equal(uint16(4)))
		})

		It("should stay halted", func() {
			load(insts.EncodeJ(0))
			Expect(e.Run()).To(Succeed())

			result := e.Step()
			Expect(result.Halted).To(BeTrue())
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})
	})

	Describe("Register format", func() {
		BeforeEach(func() {
			e.RegFile().WriteReg(1, 12)
			e.RegFile().WriteReg(2, 10)
		})

		DescribeTable("ALU operations",
			func(word uint16, expected uint16) {
				load(word)
				result := e.Step()
				Expect(result.Err).To(BeNil())
				Expect(e.RegFile().ReadReg(3)).To(Equal(expected))
				Expect(e.RegFile().PC).To(Equal(uint16(1)))
			},
			Entry("add", insts.EncodeADD(3, 1, 2), uint16(22)),
			Entry("sub", insts.EncodeSUB(3, 1, 2), uint16(2)),
			Entry("sub wraps", insts.EncodeSUB(3, 2, 1), uint16(0xFFFE)),
			Entry("or", insts.EncodeOR(3, 1, 2), uint16(12|10)),
			Entry("and", insts.EncodeAND(3, 1, 2), uint16(12&10)),
			Entry("slt false", insts.EncodeSLT(3, 1, 2), uint16(0)),
			Entry("slt true", insts.EncodeSLT(3, 2, 1), uint16(1)),
		)

		It("should compare unsigned in slt", func() {
			e.RegFile().WriteReg(1, 0xFFFF)
			e.RegFile().WriteReg(2, 1)
			load(insts.EncodeSLT(3, 2, 1), insts.EncodeSLT(4, 1, 2))

			e.Step()
			e.Step()

			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(1)))
			Expect(e.RegFile().ReadReg(4)).To(Equal(uint16(0)))
		})

		It("should wrap addition at 16 bits", func() {
			load(
				insts.EncodeADDI(1, 0, -1),
				insts.EncodeADDI(2, 1, 1),
				insts.EncodeADD(3, 1, 1),
			)

			e.Step()
			e.Step()
			e.Step()

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0xFFFF)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(0xFFFE)))
		})

		It("should jump through a register with jr", func() {
			e.RegFile().WriteReg(5, 0x3000)
			load(insts.EncodeJR(5))

			result := e.Step()

			Expect(result.Halted).To(BeFalse())
			Expect(e.RegFile().PC).To(Equal(uint16(0x3000)))
		})
	})

	Describe("Register $0", func() {
		DescribeTable("stays zero for every writing instruction",
			func(word uint16) {
				e.RegFile().WriteReg(1, 7)
				e.RegFile().WriteReg(2, 9)
				e.Memory().Write(7, 0x1234)
				load(word)

				Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
				result := e.Step()
				Expect(result.Err).To(BeNil())
				Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
				Expect(e.RegFile().PC).To(Equal(uint16(1)))
			},
			Entry("add", insts.EncodeADD(0, 1, 2)),
			Entry("sub", insts.EncodeSUB(0, 1, 2)),
			Entry("or", insts.EncodeOR(0, 1, 2)),
			Entry("and", insts.EncodeAND(0, 1, 2)),
			Entry("slt", insts.EncodeSLT(0, 1, 2)),
			Entry("addi", insts.EncodeADDI(0, 1, 5)),
			Entry("slti", insts.EncodeSLTI(0, 1, 100)),
			Entry("lw", insts.EncodeLW(0, 1, 0)),
		)

		It("should still report lw to $0 to the observer", func() {
			e.RegFile().WriteReg(1, 7)
			load(insts.EncodeLW(0, 1, 0))

			e.Step()

			Expect(recorder.accesses).To(Equal([]emu.MemAccess{
				{Kind: emu.AccessRead, PC: 0, Addr: 7},
			}))
		})
	})

	Describe("Immediate format", func() {
		It("should sign-extend addi but zero-extend slti", func() {
			e.RegFile().WriteReg(1, 100)
			load(
				insts.EncodeSLTI(2, 1, 0x7F),
				insts.EncodeADDI(3, 1, 0x7F),
			)

			e.Step()
			e.Step()

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(1)))  // 100 < 127
			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(99))) // 100 + (-1)
		})

		It("should fail slti when the register is above the immediate", func() {
			e.RegFile().WriteReg(1, 200)
			load(insts.EncodeSLTI(2, 1, 0x7F))

			e.Step()

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
		})

		It("should load from memory", func() {
			load(
				insts.EncodeLW(1, 0, 3),
				insts.EncodeJ(1),
				0,
				0xCAFE,
			)

			e.Step()

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0xCAFE)))
			Expect(recorder.accesses).To(HaveLen(1))
		})

		It("should store to memory", func() {
			e.RegFile().WriteReg(2, 0xABCD)
			e.RegFile().WriteReg(4, 100)
			load(insts.EncodeSW(2, 4, -2))

			e.Step()

			Expect(e.Memory().Read(98)).To(Equal(uint16(0xABCD)))
			Expect(recorder.accesses).To(Equal([]emu.MemAccess{
				{Kind: emu.AccessWrite, PC: 0, Addr: 98},
			}))
		})

		It("should mask effective addresses beyond 13 bits", func() {
			e.RegFile().WriteReg(1, 0x2005)
			e.RegFile().WriteReg(2, 0x1111)
			e.Memory().Write(5, 0xBEEF)
			load(
				insts.EncodeLW(3, 1, 0),
				insts.EncodeSW(2, 1, 1),
			)

			e.Step()
			e.Step()

			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(0xBEEF)))
			Expect(e.Memory().Read(6)).To(Equal(uint16(0x1111)))
			Expect(recorder.accesses[0].Addr).To(Equal(uint16(5)))
			Expect(recorder.accesses[1].Addr).To(Equal(uint16(6)))
		})

		It("should wrap negative effective addresses", func() {
			e.Memory().Write(emu.MemSize-1, 77)
			load(insts.EncodeLW(1, 0, -1))

			e.Step()

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(77)))
			Expect(recorder.accesses[0].Addr).To(Equal(uint16(emu.MemSize - 1)))
		})
	})

	Describe("Branches", func() {
		It("should take jeq when registers are equal", func() {
			e.RegFile().WriteReg(1, 4)
			e.RegFile().WriteReg(2, 4)
			load(insts.EncodeJEQ(1, 2, 2))

			e.Step()

			Expect(e.RegFile().PC).To(Equal(uint16(3)))
		})

		It("should fall through jeq when registers differ", func() {
			e.RegFile().WriteReg(1, 4)
			load(insts.EncodeJEQ(1, 2, 2))

			e.Step()

			Expect(e.RegFile().PC).To(Equal(uint16(1)))
		})

		It("should branch backwards with a negative offset", func() {
			e.RegFile().PC = 5
			e.Memory().Write(5, insts.EncodeJEQ(0, 0, -3))

			e.Step()

			Expect(e.RegFile().PC).To(Equal(uint16(3)))
		})

		It("should link to $7 on jal", func() {
			e.RegFile().PC = 2
			e.Memory().Write(2, insts.EncodeJAL(10))

			result := e.Step()

			Expect(result.Halted).To(BeFalse())
			Expect(e.RegFile().ReadReg(7)).To(Equal(uint16(3)))
			Expect(e.RegFile().PC).To(Equal(uint16(10)))
		})

		It("should not halt on jal to itself", func() {
			load(insts.EncodeJAL(0))

			result := e.Step()

			Expect(result.Halted).To(BeFalse())
			Expect(e.RegFile().ReadReg(7)).To(Equal(uint16(1)))
		})

		It("should not halt on a jump elsewhere", func() {
			load(insts.EncodeJ(2), 0, insts.EncodeJ(2))

			result := e.Step()

			Expect(result.Halted).To(BeFalse())
			Expect(e.RegFile().PC).To(Equal(uint16(2)))

			result = e.Step()
			Expect(result.Halted).To(BeTrue())
		})

		It("should return from a call", func() {
			// 0: jal 3
			// 1: addi $2,$0,1
			// 2: j 2
			// 3: addi $1,$0,9
			// 4: jr $7
			load(
				insts.EncodeJAL(3),
				insts.EncodeADDI(2, 0, 1),
				insts.EncodeJ(2),
				insts.EncodeADDI(1, 0, 9),
				insts.EncodeJR(7),
			)

			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(9)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(1)))
			Expect(e.RegFile().PC).To(Equal(uint16(2)))
		})
	})

	Describe("Program counter", func() {
		It("should fetch from the low 13 bits but commit the full value", func() {
			e.RegFile().PC = emu.MemSize
			e.Memory().Write(0, insts.EncodeADDI(1, 0, 1))

			e.Step()

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(1)))
			Expect(e.RegFile().PC).To(Equal(uint16(emu.MemSize + 1)))
		})
	})

	Describe("Undefined instructions", func() {
		It("should be a no-op by default", func() {
			e.RegFile().WriteReg(1, 3)
			load(insts.EncodeReg(5, 1, 1, 2))

			result := e.Step()

			Expect(result.Err).To(BeNil())
			Expect(e.RegFile().PC).To(Equal(uint16(1)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should fail in strict mode without advancing", func() {
			e = emu.NewEmulator(emu.WithStrictDecode())
			load(insts.EncodeReg(5, 1, 1, 2))

			result := e.Step()

			Expect(result.Err).To(MatchError(emu.ErrIllegalInstruction))
			Expect(e.RegFile().PC).To(Equal(uint16(0)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.Run()).To(MatchError(emu.ErrIllegalInstruction))
		})
	})

	Describe("Run bounds", func() {
		BeforeEach(func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(10))
			load(insts.EncodeJ(1), insts.EncodeJ(0))
		})

		It("should stop at the instruction limit", func() {
			err := e.Run()

			Expect(err).To(MatchError(emu.ErrMaxInstructions))
			Expect(e.InstructionCount()).To(Equal(uint64(10)))
			Expect(e.Halted()).To(BeFalse())
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(e.RunContext(ctx)).To(MatchError(context.Canceled))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})
	})

	Describe("Trace", func() {
		It("should write one line per instruction", func() {
			buf := &bytes.Buffer{}
			e = emu.NewEmulator(emu.WithTrace(buf))
			load(insts.EncodeADDI(1, 0, 10), insts.EncodeJ(1))

			Expect(e.Run()).To(Succeed())

			Expect(buf.String()).To(Equal(
				"pc:    0  208a  addi $1,$0,10\n" +
					"pc:    1  4001  j 1\n"))
		})
	})

	Describe("Snapshot and Reset", func() {
		It("should copy the machine state", func() {
			load(insts.EncodeADDI(1, 0, 5), insts.EncodeSW(1, 0, 20), insts.EncodeJ(2))
			Expect(e.Run()).To(Succeed())

			snap := e.Snapshot()
			Expect(snap.PC).To(Equal(uint16(2)))
			Expect(snap.Regs[1]).To(Equal(uint16(5)))
			Expect(snap.Memory[20]).To(Equal(uint16(5)))

			e.Memory().Write(20, 0)
			Expect(snap.Memory[20]).To(Equal(uint16(5)))
		})

		It("should clear everything on Reset", func() {
			load(insts.EncodeADDI(1, 0, 5), insts.EncodeJ(1))
			Expect(e.Run()).To(Succeed())

			e.Reset()

			Expect(e.Halted()).To(BeFalse())
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.Snapshot()).To(Equal(emu.Snapshot{}))
		})
	})
})
