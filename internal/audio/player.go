package audio

// Player loads WAV data into playable sounds.
type Player interface {
	Load(wav []byte) (Sound, error)
	Close() error
}

// Sound is one loaded clip. Done is closed when playback reaches the end or
// the sound is stopped. Stop and Unload are idempotent.
type Sound interface {
	Play() error
	Stop() error
	Unload() error
	Done() <-chan struct{}
}
