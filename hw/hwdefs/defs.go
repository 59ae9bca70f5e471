package hwdefs

const (
	// SampleRate is the fixed rate, in Hz, at which the chip emits samples.
	SampleRate = 22050

	// SamplesPerTick is the number of samples in one PICO-8 tick (~120.5Hz).
	// SFX speeds and effect rates are expressed in ticks.
	SamplesPerTick = 183

	// NumChannels is the number of channels addressable by SFX_CMD.
	NumChannels = 8
)

// SFX memory layout.
const (
	NumSlots     = 64 // SFX slots, 0x3F is reserved as the STOP index
	NotesPerSlot = 32
	NoteSize     = 2
	HeaderOffset = NotesPerSlot * NoteSize // header follows the notes
	HeaderSize   = 4
	SlotSize     = HeaderOffset + HeaderSize // 68 bytes

	// DefaultSFXBase is where PICO-8 keeps its SFX table in memory.
	DefaultSFXBase = 0x3200

	// MemSize is the size of the external memory model.
	MemSize = 0x10000
)

// Control registers word addresses.
const (
	RegCTRL      = 0x01
	RegSFXBASEHI = 0x02
	RegSFXBASELO = 0x03
	RegNOTEATK   = 0x08
	RegNOTEREL   = 0x09
	RegSFXCMD    = 0x0A
	RegSFXLEN    = 0x0B
)

// CTRL bits.
const (
	CtrlRun = 1 << 0
)

// StopIndex is the SFX_CMD index meaning "stop the channel".
const StopIndex = 0x3F
