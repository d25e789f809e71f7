//go:build alsa && !headless

// audio_backend_alsa.go - ALSA audio output implementation

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/FlickerTone
License: GPLv3 or later
*/

package main

/*
#cgo LDFLAGS: -lasound
#cgo CFLAGS: -O2
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels, unsigned int latencyUs) {
    return snd_pcm_set_params(handle, SND_PCM_FORMAT_FLOAT, SND_PCM_ACCESS_RW_INTERLEAVED,
                              channels, rate, 1, latencyUs);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static int recoverPCM(snd_pcm_t* handle, int err) {
    return snd_pcm_recover(handle, err, 1);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drop(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// alsaPCM adapts a PCM handle to pcmDevice.
type alsaPCM struct {
	handle *C.snd_pcm_t
}

func (pcm alsaPCM) WriteFrames(samples []float32, frames int) int {
	return int(C.writePCM(pcm.handle, (*C.float)(unsafe.Pointer(&samples[0])), C.int(frames)))
}

func (pcm alsaPCM) Recover(code int) int {
	return int(C.recoverPCM(pcm.handle, C.int(code)))
}

// ALSAPlayer pushes periods to the default PCM from its own goroutine; the
// goroutine pulls each period from the source first, so the source sees the
// same pull contract as under oto. The goroutine ends on Stop or when the
// device stops accepting writes; Start brings it back.
type ALSAPlayer struct {
	handle *C.snd_pcm_t
	reader *sampleReader
	pump   *pcmPump

	lastErr atomic.Pointer[error]
	started bool
	playing atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	mutex   sync.Mutex
}

func NewALSAPlayer(source SampleSource, sampleRate int, bufferSize time.Duration, status *runtimeStatusStore) (*ALSAPlayer, error) {
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var err C.int
	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, &AudioError{Operation: "device open", Details: C.GoString(C.snd_strerror(err))}
	}

	channels := source.Channels()
	latency := C.uint(bufferSize / time.Microsecond)
	if err = C.setupPCM(handle, C.uint(sampleRate), C.uint(channels), latency); err < 0 {
		C.closePCM(handle)
		return nil, &AudioError{Operation: "device setup", Details: C.GoString(C.snd_strerror(err))}
	}

	// Half the latency per write keeps the device queue from draining
	frames := max(framesFor(sampleRate, bufferSize)/2, 1)
	ap := &ALSAPlayer{
		handle: handle,
		reader: newSampleReader(source, frames, status),
	}
	ap.pump = &pcmPump{
		dev:      alsaPCM{handle},
		reader:   ap.reader,
		samples:  make([]float32, frames*channels),
		channels: channels,
		backoff:  time.Duration(frames) * time.Second / time.Duration(sampleRate),
		onError: func(err error) {
			ap.lastErr.Store(&err)
		},
	}
	return ap, nil
}

func (ap *ALSAPlayer) Start() error {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle == nil {
		return &AudioError{Operation: "start", Details: "device already closed"}
	}
	if !ap.reader.attached() {
		return &AudioError{Operation: "start", Details: "player was stopped"}
	}
	ap.started = true
	if ap.playing.Load() {
		return nil
	}
	if ap.done != nil {
		// The previous pump gave up on the device; re-arm it before writing
		if rc := C.snd_pcm_prepare(ap.handle); rc < 0 {
			return &AudioError{Operation: "start", Details: C.GoString(C.snd_strerror(rc))}
		}
		ap.lastErr.Store(nil)
	}
	ap.stop = make(chan struct{})
	ap.done = make(chan struct{})
	ap.playing.Store(true)
	go ap.run(ap.stop, ap.done)
	return nil
}

func (ap *ALSAPlayer) run(stop, done chan struct{}) {
	defer close(done)
	defer ap.playing.Store(false)
	ap.pump.run(stop)
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	ap.reader.detach()
	if ap.stop != nil {
		close(ap.stop)
		<-ap.done
		ap.stop = nil
	}
	ap.started = false
}
func (ap *ALSAPlayer) Close() error {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
	return nil
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

func (ap *ALSAPlayer) IsPlaying() bool {
	return ap.playing.Load()
}

func (ap *ALSAPlayer) Err() error {
	if p := ap.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}
