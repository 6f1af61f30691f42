package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// audioSink is a deliberately inert portaudio output stream: the APU
// shell has no synthesis to feed it, so the callback emits silence
// sized to the configured sample rate. It exists so -audio=portaudio
// has a real third-party destination rather than claiming a synthesis
// accuracy this core doesn't implement.
type audioSink struct {
	stream *portaudio.Stream
}

func newAudioSink(sampleRate int) (*audioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("corenes: portaudio init: %w", err)
	}

	cb := func(out []float32) {
		for i := range out {
			out[i] = 0
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), 0, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("corenes: opening audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("corenes: starting audio stream: %w", err)
	}

	return &audioSink{stream: stream}, nil
}

func (a *audioSink) Close() {
	a.stream.Close()
	portaudio.Terminate()
}
