package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Register format", func() {
		// add $3,$1,$2 -> 0x0530
		// Encoding: 000 | srcA=001 | srcB=010 | dst=011 | func=0000
		It("should decode add $3,$1,$2", func() {
			inst := decoder.Decode(0x0530)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatReg))
			Expect(inst.RegA).To(Equal(uint8(1)))
			Expect(inst.RegB).To(Equal(uint8(2)))
			Expect(inst.RegDst).To(Equal(uint8(3)))
			Expect(inst.Word).To(Equal(uint16(0x0530)))
		})

		// sub $5,$6,$7 -> 0x1BD1
		It("should decode sub $5,$6,$7", func() {
			inst := decoder.Decode(0x1BD1)

			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.RegA).To(Equal(uint8(6)))
			Expect(inst.RegB).To(Equal(uint8(7)))
			Expect(inst.RegDst).To(Equal(uint8(5)))
		})

		DescribeTable("function codes",
			func(fn uint16, op insts.Op) {
				inst := decoder.Decode(insts.EncodeReg(fn, 1, 2, 3))
				Expect(inst.Op).To(Equal(op))
				Expect(inst.Func).To(Equal(uint8(fn)))
			},
			Entry("add", insts.FuncADD, insts.OpADD),
			Entry("sub", insts.FuncSUB, insts.OpSUB),
			Entry("or", insts.FuncOR, insts.OpOR),
			Entry("and", insts.FuncAND, insts.OpAND),
			Entry("slt", insts.FuncSLT, insts.OpSLT),
			Entry("jr", insts.FuncJR, insts.OpJR),
			Entry("5 is undefined", uint16(5), insts.OpUnknown),
			Entry("7 is undefined", uint16(7), insts.OpUnknown),
			Entry("15 is undefined", uint16(15), insts.OpUnknown),
		)

		// jr $7 -> 0x1C08
		It("should decode jr $7", func() {
			inst := decoder.Decode(0x1C08)

			Expect(inst.Op).To(Equal(insts.OpJR))
			Expect(inst.RegA).To(Equal(uint8(7)))
		})

		It("should keep operand fields of unknown function codes", func() {
			inst := decoder.Decode(insts.EncodeReg(9, 4, 5, 6))

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Format).To(Equal(insts.FormatReg))
			Expect(inst.RegA).To(Equal(uint8(4)))
			Expect(inst.RegB).To(Equal(uint8(5)))
			Expect(inst.RegDst).To(Equal(uint8(6)))
		})
	})

	Describe("Jump format", func() {
		It("should decode j 3", func() {
			inst := decoder.Decode(0x4003)

			Expect(inst.Op).To(Equal(insts.OpJ))
			Expect(inst.Format).To(Equal(insts.FormatJump))
			Expect(inst.Target()).To(Equal(uint16(3)))
		})

		It("should decode jal 100", func() {
			inst := decoder.Decode(0x6064)

			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Target()).To(Equal(uint16(100)))
		})

		It("should decode the full 13-bit target", func() {
			inst := decoder.Decode(0x5FFF)

			Expect(inst.Op).To(Equal(insts.OpJ))
			Expect(inst.Target()).To(Equal(uint16(8191)))
			Expect(inst.SignedImm()).To(Equal(-1))
		})
	})

	Describe("Immediate format", func() {
		It("should decode addi $1,$0,5", func() {
			inst := decoder.Decode(0x2085)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Format).To(Equal(insts.FormatImm))
			Expect(inst.RegA).To(Equal(uint8(0)))
			Expect(inst.RegDst).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(uint16(5)))
			Expect(inst.SignedImm()).To(Equal(5))
		})

		It("should decode addi $2,$1,-1", func() {
			inst := decoder.Decode(0x257F)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.RegA).To(Equal(uint8(1)))
			Expect(inst.RegDst).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(uint16(0x7F)))
			Expect(inst.SignedImm()).To(Equal(-1))
		})

		It("should decode lw $1,-2($4)", func() {
			inst := decoder.Decode(0x90FE)

			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.RegA).To(Equal(uint8(4)))
			Expect(inst.RegDst).To(Equal(uint8(1)))
			Expect(inst.SignedImm()).To(Equal(-2))
		})

		It("should decode sw $3,10($0)", func() {
			inst := decoder.Decode(0xA18A)

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.RegA).To(Equal(uint8(0)))
			Expect(inst.RegDst).To(Equal(uint8(3)))
			Expect(inst.SignedImm()).To(Equal(10))
		})

		It("should decode jeq $1,$2,-3", func() {
			inst := decoder.Decode(0xC57D)

			Expect(inst.Op).To(Equal(insts.OpJEQ))
			Expect(inst.RegA).To(Equal(uint8(1)))
			Expect(inst.RegDst).To(Equal(uint8(2)))
			Expect(inst.SignedImm()).To(Equal(-3))
		})

		It("should decode slti $4,$3,127", func() {
			inst := decoder.Decode(0xEE7F)

			Expect(inst.Op).To(Equal(insts.OpSLTI))
			Expect(inst.RegA).To(Equal(uint8(3)))
			Expect(inst.RegDst).To(Equal(uint8(4)))
			Expect(inst.Imm).To(Equal(uint16(127)))
		})
	})

	Describe("Encoder round trip", func() {
		It("should decode what the encoder produced", func() {
			Expect(insts.EncodeADD(3, 1, 2)).To(Equal(uint16(0x0530)))
			Expect(insts.EncodeJR(7)).To(Equal(uint16(0x1C08)))
			Expect(insts.EncodeJ(3)).To(Equal(uint16(0x4003)))
			Expect(insts.EncodeJAL(100)).To(Equal(uint16(0x6064)))
			Expect(insts.EncodeADDI(1, 0, 5)).To(Equal(uint16(0x2085)))
			Expect(insts.EncodeADDI(2, 1, -1)).To(Equal(uint16(0x257F)))
			Expect(insts.EncodeLW(1, 4, -2)).To(Equal(uint16(0x90FE)))
			Expect(insts.EncodeSW(3, 0, 10)).To(Equal(uint16(0xA18A)))
			Expect(insts.EncodeJEQ(1, 2, -3)).To(Equal(uint16(0xC57D)))
			Expect(insts.EncodeSLTI(4, 3, 127)).To(Equal(uint16(0xEE7F)))
		})
	})

	Describe("String", func() {
		DescribeTable("renders assembly",
			func(word uint16, expected string) {
				Expect(decoder.Decode(word).String()).To(Equal(expected))
			},
			Entry("add", uint16(0x0530), "add $3,$1,$2"),
			Entry("jr", uint16(0x1C08), "jr $7"),
			Entry("j", uint16(0x4003), "j 3"),
			Entry("addi negative", uint16(0x257F), "addi $2,$1,-1"),
			Entry("lw", uint16(0x90FE), "lw $1,-2($4)"),
			Entry("sw", uint16(0xA18A), "sw $3,10($0)"),
			Entry("jeq", uint16(0xC57D), "jeq $1,$2,-3"),
			Entry("slti unsigned", uint16(0xEE7F), "slti $4,$3,127"),
			Entry("unknown", uint16(0x0005), ".fill 0x0005"),
		)
	})
})
