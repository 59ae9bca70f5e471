package hwio

import "testing"

func TestMemWords(t *testing.T) {
	m := NewMem("ram", 0x100, MemFlagReadWrite)
	m.Load(0x10, []byte{0x12, 0x34, 0x56, 0x78})

	if got := m.ReadWord16(0x08); got != 0x1234 {
		t.Errorf("ReadWord16(08) = %04x, want 1234", got)
	}
	if got := m.ReadWord16(0x09); got != 0x5678 {
		t.Errorf("ReadWord16(09) = %04x, want 5678", got)
	}

	// mirrored
	if got := m.Read8(0x110); got != 0x12 {
		t.Errorf("Read8(110) = %02x, want 12", got)
	}
}

func TestMemWritten(t *testing.T) {
	m := NewMem("ram", 0x100, MemFlagReadWrite)
	m.Write8(0x40, 0)

	if !m.Written(0x40, 1) {
		t.Error("Written(40, 1) = false, want true")
	}
	if m.Written(0x00, 0x40) {
		t.Error("Written(00, 40) = true, want false")
	}
	if !m.Written(0xF0, 0x60) {
		t.Error("Written across wrap-around = false, want true")
	}

	m.ClearWritten()
	if m.Written(0, 0x100) {
		t.Error("Written after ClearWritten = true, want false")
	}
}

func TestMemReadOnly(t *testing.T) {
	m := NewMem("rom", 0x10, MemFlagNoROLog)
	m.Write8(0, 0xFF)
	if m.Read8(0) != 0 || m.Written(0, 1) {
		t.Error("read-only memory was modified")
	}
}

func TestMemReadOnlyFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags MemFlags
		want  uint8
	}{
		{"read-write", MemFlagReadWrite, 0xAB},
		{"read-only", MemFlag8ReadOnly, 0},
		{"no-log", MemFlagNoROLog, 0},
		{"read-only+no-log", MemFlag8ReadOnly | MemFlagNoROLog, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMem("mem", 0x10, tt.flags)
			m.Write8(3, 0xAB)
			if got := m.Read8(3); got != tt.want {
				t.Errorf("Read8(3) = %02x, want %02x", got, tt.want)
			}
			if got := m.Written(3, 1); got != (tt.want != 0) {
				t.Errorf("Written(3, 1) = %t, want %t", got, tt.want != 0)
			}
		})
	}
}
