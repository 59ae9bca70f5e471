package hwio

import "testing"

func TestReg16(t *testing.T) {
	r := Reg16{Value: 0x1111, RoMask: 0xF000}

	if got := r.Read16(0, false); got != 0x1111 {
		t.Errorf("invalid read: %x", got)
	}

	r.Write16(0, 0x7777, LaneBoth)
	if r.Value != 0x1777 {
		t.Errorf("writemask not respected: %x", r.Value)
	}
}

func TestReg16ByteLanes(t *testing.T) {
	tests := []struct {
		lanes ByteLanes
		val   uint16
		want  uint16
	}{
		{LaneBoth, 0xABCD, 0xABCD},
		{LaneLo, 0xABCD, 0x12CD},
		{LaneHi, 0xABCD, 0xAB34},
		{0, 0xABCD, 0x1234},
	}

	for _, tt := range tests {
		called := false
		r := Reg16{Value: 0x1234, WriteCb: func(old, val uint16) { called = true }}
		r.Write16(0, tt.val, tt.lanes)
		if r.Value != tt.want {
			t.Errorf("Write16(%04x, %v) = %04x, want %04x", tt.val, tt.lanes, r.Value, tt.want)
		}
		if called != (tt.lanes != 0) {
			t.Errorf("Write16(%04x, %v): write callback called = %t", tt.val, tt.lanes, called)
		}
	}
}

func TestReg16Flags(t *testing.T) {
	wo := Reg16{Name: "WO", Flags: WriteOnlyFlag}
	wo.Write16(0, 0x8001, LaneBoth)
	if got := wo.Read16(0, false); got != 0 {
		t.Errorf("writeonly read = %04x, want 0", got)
	}
	if wo.Value != 0x8001 {
		t.Errorf("writeonly value = %04x, want 8001", wo.Value)
	}

	ro := Reg16{Name: "RO", Value: 0x55, Flags: ReadOnlyFlag}
	ro.Write16(0, 0xFFFF, LaneBoth)
	if got := ro.Read16(0, false); got != 0x55 {
		t.Errorf("readonly read = %04x, want 0055", got)
	}
}

func TestFields(t *testing.T) {
	var v uint16 = 0xA5C3
	if got := Field16(v, 6, 6); got != 0x17 {
		t.Errorf("Field16 = %x, want 17", got)
	}
	SetField16(&v, 12, 3, 0xF)
	if v != 0xF5C3 {
		t.Errorf("SetField16 = %04x, want F5C3", v)
	}
	if !FitsBits(63, 6) || FitsBits(64, 6) {
		t.Error("FitsBits wrong for 6-bit field")
	}
}
