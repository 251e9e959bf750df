package player

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/123ibadullah/MusicWebApplication/logger"
)

var speakerInitialized bool

// Beep plays mp3/flac sources through the system speaker. Remote (http/https)
// sources are fetched to a temp file before decoding.
type Beep struct {
	mu         sync.Mutex
	state      State
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	streamer   beep.StreamSeekCloser
	format     beep.Format
	file       *os.File
	tempPath   string
	volumePct  int
	onFinished func()
	httpClient *http.Client
}

// NewBeep creates a stopped player at full volume.
func NewBeep() *Beep {
	return &Beep{
		state:      Stopped,
		volumePct:  100,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Play tears down any current media, loads src and begins playing.
func (p *Beep) Play(src string) error {
	p.Stop()

	path := src
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		local, err := p.fetch(src)
		if err != nil {
			return fmt.Errorf("failed to fetch media %s: %w", src, err)
		}
		path = local
	}

	ext := strings.ToLower(filepath.Ext(strings.SplitN(path, "?", 2)[0]))
	if ext != ".mp3" && ext != ".flac" {
		return fmt.Errorf("unsupported media format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode media: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		speakerInitialized = true
	}

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer, Paused: false}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   percentToVolume(p.volumePct),
		Silent:   p.volumePct == 0,
	}
	p.state = Playing

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// The callback runs inside the speaker's sample pull with the
		// speaker lock held. Handlers seek and stop back through the
		// speaker, so the event must leave this goroutine first.
		go func() {
			p.mu.Lock()
			fn := p.onFinished
			p.mu.Unlock()
			if fn != nil {
				fn()
			}
		}()
	})))

	return nil
}

// fetch downloads a remote source to a temp file and returns its path.
func (p *Beep) fetch(src string) (string, error) {
	resp, err := p.httpClient.Get(src)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	ext := filepath.Ext(strings.SplitN(src, "?", 2)[0])
	if ext == "" {
		ext = ".mp3"
	}
	tmp, err := os.CreateTemp("", "musicapp-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	tmp.Close()

	p.mu.Lock()
	p.tempPath = tmp.Name()
	p.mu.Unlock()
	return tmp.Name(), nil
}

// Stop halts playback and releases the loaded media.
func (p *Beep) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Stopped {
		return
	}

	speaker.Clear()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	if p.tempPath != "" {
		if err := os.Remove(p.tempPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove temp media file", logger.String("path", p.tempPath), logger.ErrorField(err))
		}
		p.tempPath = ""
	}

	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

// Pause pauses playback.
func (p *Beep) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume resumes paused playback.
func (p *Beep) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// State returns the current transport state.
func (p *Beep) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SeekTo moves playback to an absolute position, clamped to the media length.
func (p *Beep) SeekTo(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.state == Stopped {
		return
	}

	n := p.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if max := p.streamer.Len(); n > max {
		n = max
	}

	speaker.Lock()
	if err := p.streamer.Seek(n); err != nil {
		logger.Warn("seek failed", logger.Duration("pos", pos), logger.ErrorField(err))
	}
	speaker.Unlock()
}

// SetVolume sets the output volume as a percentage in [0,100].
func (p *Beep) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumePct = percent
	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = percentToVolume(percent)
		p.volume.Silent = percent == 0
		speaker.Unlock()
	}
}

// Position returns the current playback position.
func (p *Beep) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration returns the loaded media's total duration, or 0 if none.
func (p *Beep) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// OnFinished registers the natural-end callback.
func (p *Beep) OnFinished(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

// Close stops playback and releases resources.
func (p *Beep) Close() error {
	p.Stop()
	return nil
}

// percentToVolume maps a 0-100 percentage to beep's base-2 logarithmic volume.
// 100 -> 0 (unchanged), 50 -> -1 (half), 25 -> -2 (quarter).
func percentToVolume(percent int) float64 {
	if percent <= 0 {
		return -10
	}
	if percent >= 100 {
		return 0
	}
	return math.Log2(float64(percent) / 100)
}

// Verify Beep implements Interface at compile time.
var _ Interface = (*Beep)(nil)
