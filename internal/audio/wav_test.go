package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	wav := EncodeWAV(samples, 22050)

	if len(wav) != HeaderSize+len(samples)*2 {
		t.Fatalf("expected %d bytes, got %d", HeaderSize+len(samples)*2, len(wav))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"riff", string(wav[0:4]), "RIFF"},
		{"riff size", le.Uint32(wav[4:8]), uint32(36 + len(samples)*2)},
		{"wave", string(wav[8:12]), "WAVE"},
		{"fmt", string(wav[12:16]), "fmt "},
		{"fmt size", le.Uint32(wav[16:20]), uint32(16)},
		{"format", le.Uint16(wav[20:22]), uint16(1)},
		{"channels", le.Uint16(wav[22:24]), uint16(1)},
		{"sample rate", le.Uint32(wav[24:28]), uint32(22050)},
		{"byte rate", le.Uint32(wav[28:32]), uint32(44100)},
		{"block align", le.Uint16(wav[32:34]), uint16(2)},
		{"bits", le.Uint16(wav[34:36]), uint16(16)},
		{"data", string(wav[36:40]), "data"},
		{"data size", le.Uint32(wav[40:44]), uint32(len(samples) * 2)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}

	if got := int16(le.Uint16(wav[44+2*2:])); got != -1000 {
		t.Errorf("sample 2: got %d", got)
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	wav := EncodeWAV(nil, 16000)
	if len(wav) != HeaderSize {
		t.Fatalf("expected bare header, got %d bytes", len(wav))
	}
	if binary.LittleEndian.Uint32(wav[4:8]) != 36 {
		t.Error("riff size of empty file must be 36")
	}
}

func TestDecodeWAV(t *testing.T) {
	samples := make([]int16, 22050)
	wav := EncodeWAV(samples, 22050)

	pcm, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pcm.SampleRate != 22050 || pcm.Channels != 1 || len(pcm.Data) != len(samples)*2 {
		t.Errorf("unexpected pcm %d Hz %d ch %d bytes", pcm.SampleRate, pcm.Channels, len(pcm.Data))
	}
	if pcm.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", pcm.Duration())
	}
	if !bytes.Equal(pcm.Data, wav[HeaderSize:]) {
		t.Error("data chunk mismatch")
	}
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	wav := EncodeWAV([]int16{7, 8}, 8000)
	// Insert a LIST chunk with an odd size (padded) between fmt and data.
	extra := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wav[:36]...), extra...), wav[36:]...)

	pcm, err := DecodeWAV(withList)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pcm.Data) != 4 {
		t.Errorf("expected 4 data bytes, got %d", len(pcm.Data))
	}
}

func TestDecodeWAVRejects(t *testing.T) {
	valid := EncodeWAV([]int16{1, 2, 3}, 8000)

	eightBit := append([]byte{}, valid...)
	binary.LittleEndian.PutUint16(eightBit[34:], 8)

	truncated := valid[:HeaderSize+2]

	cases := map[string][]byte{
		"short":     []byte("RIFF"),
		"not riff":  append([]byte("RIFX"), valid[4:]...),
		"8-bit":     eightBit,
		"truncated": truncated,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeWAV(data); !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}
