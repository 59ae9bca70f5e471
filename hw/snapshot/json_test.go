package snapshot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChipJSON(t *testing.T) {
	want := Chip{
		Regs:    Regs{CTRL: 1, SFXBASELO: 0x3200, NOTEREL: 20},
		Ticks:   23424,
		Output:  -17,
		Clipped: 3,
	}
	want.Channels[0] = Channel{
		State:        "Sustain",
		Index:        8,
		Offset:       5,
		Position:     120,
		Speed:        4,
		Note:         0x0E1D,
		Phase:        0xDEADBEEF,
		NoteOffset:   1 << 23,
		Gain:         1 << 16,
		FetchTag:     70000,
		FetchAddr:    0x1B00,
		Output:       -42,
		FetchPending: true,
	}
	want.Channels[7].State = "Idle"

	buf, err := want.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	var got Chip
	if err := got.UnmarshalJSON(buf); err != nil {
		t.Fatalf("UnmarshalJSON: %v\n%s", err, buf)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestChipJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"too many channels", `{"channels":[{},{},{},{},{},{},{},{},{}]}`, "too many channels"},
		{"bad type", `{"ticks":"foo"}`, "ticks"},
		{"bad channel", `{"channels":[{"index":"x"}]}`, "channel 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Chip
			err := c.UnmarshalJSON([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("UnmarshalJSON(%s) = %v, want error containing %q", tt.data, err, tt.want)
			}
		})
	}
}

func TestChipJSONUnknownFields(t *testing.T) {
	var c Chip
	if err := c.UnmarshalJSON([]byte(`{"version":2,"ticks":5,"extra":{"a":[1,2]}}`)); err != nil {
		t.Fatal(err)
	}
	if c.Ticks != 5 {
		t.Errorf("Ticks = %d, want 5", c.Ticks)
	}
}
