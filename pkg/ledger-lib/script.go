package ledgerlib

// Opcodes and registers of the ledger VM used by the client when crafting scripts.
const (
	OpRET byte = 0x24

	RegZero byte = 0x00
	RegOne  byte = 0x01
)

// InstructionSize is the size in bytes of an encoded instruction.
const InstructionSize = 4

// Ret encodes the instruction returning the value of register ra.
// The register id is stored in the 6 most significant bits following the opcode.
func Ret(ra byte) []byte {
	return []byte{OpRET, (ra & 0x3f) << 2, 0x00, 0x00}
}

// NoopScript is a script made of a single instruction that returns immediately.
// It is used by transactions whose only effect is moving value from inputs to
// outputs.
func NoopScript() []byte {
	return Ret(RegOne)
}
