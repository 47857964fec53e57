package audio

import (
	"path/filepath"
	"testing"
)

func TestFormatValidate(t *testing.T) {
	want := DefaultFormat

	if err := (Format{16000, 1, 16}).Validate(want); err != nil {
		t.Fatalf("matching format rejected: %v", err)
	}

	bad := []Format{
		{44100, 1, 16},
		{16000, 2, 16},
		{16000, 1, 8},
	}
	for _, f := range bad {
		if err := f.Validate(want); err == nil {
			t.Errorf("format %v accepted, want rejection", f)
		}
	}
}

func TestInt16BytesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 12345}
	out := BytesToInt16(Int16ToBytes(in))

	if len(out) != len(in) {
		t.Fatalf("got %d samples, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: got %d, want %d", i, out[i], in[i])
		}
	}
}

func TestFramesDropsPartial(t *testing.T) {
	pcm := make([]int16, 1000)
	frames := Frames(pcm, 480)

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2 (trailing 40 samples dropped)", len(frames))
	}
	for i, f := range frames {
		if len(f) != 480 {
			t.Errorf("frame %d has %d samples, want 480", i, len(f))
		}
	}

	if got := Frames(nil, 480); got != nil {
		t.Errorf("empty input yielded %d frames", len(got))
	}
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	in := []int16{0, 100, -100, 3000, -3000, 32767}

	if err := WriteWAV(path, in, DefaultFormat); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	out, format, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if format != DefaultFormat {
		t.Errorf("got format %v, want %v", format, DefaultFormat)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d samples, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: got %d, want %d", i, out[i], in[i])
		}
	}
}
