// Package audio encodes synthesized PCM as WAV and plays it back.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// HeaderSize is the size of the canonical PCM WAV header.
const HeaderSize = 44

// ErrFormat is returned by DecodeWAV for input it cannot play.
var ErrFormat = errors.New("audio: unsupported wav format")

// PCM is decoded little-endian 16-bit audio.
type PCM struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// Duration is the playback length of p.
func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}
	frames := len(p.Data) / (2 * p.Channels)
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// EncodeWAV wraps mono 16-bit samples in a canonical 44-byte-header WAV container.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcmToWAV(pcm, sampleRate, 1, 2)
}

func pcmToWAV(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	dataLen := len(pcm)

	buf := &bytes.Buffer{}
	buf.Grow(HeaderSize + dataLen)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// DecodeWAV parses a RIFF/WAVE file holding 16-bit PCM. Unknown chunks
// between "fmt " and "data" are skipped.
func DecodeWAV(data []byte) (PCM, error) {
	if len(data) < HeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return PCM{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrFormat)
	}

	var (
		p      PCM
		gotFmt bool
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return PCM{}, fmt.Errorf("%w: chunk %q overruns file", ErrFormat, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return PCM{}, fmt.Errorf("%w: short fmt chunk", ErrFormat)
			}
			format := binary.LittleEndian.Uint16(data[body:])
			bits := binary.LittleEndian.Uint16(data[body+14:])
			if format != 1 || bits != 16 {
				return PCM{}, fmt.Errorf("%w: format %d, %d bits", ErrFormat, format, bits)
			}
			p.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			p.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			gotFmt = true
		case "data":
			if !gotFmt {
				return PCM{}, fmt.Errorf("%w: data before fmt", ErrFormat)
			}
			p.Data = data[body : body+size]
			return p, nil
		}

		// Chunks are word aligned.
		off = body + size + size%2
	}
	return PCM{}, fmt.Errorf("%w: no data chunk", ErrFormat)
}
