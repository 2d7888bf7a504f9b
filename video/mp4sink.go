package video

import (
	"fmt"
	"os"
	"sync"
	"time"

	mp4 "github.com/yapingcat/gomedia/go-mp4"
)

// MP4Sink records the mirrored stream to an mp4 file. Handy for capturing
// automation sessions for later review.
type MP4Sink struct {
	path string

	mu      sync.Mutex
	file    *os.File
	muxer   *mp4.Movmuxer
	trackID uint32
	frames  uint64
}

func NewMP4Sink(path string) *MP4Sink {
	return &MP4Sink{path: path}
}

func (s *MP4Sink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return fmt.Errorf("sink already started")
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", s.path, err)
	}

	muxer, err := mp4.CreateMp4Muxer(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("cannot create muxer: %w", err)
	}

	s.file = file
	s.muxer = muxer
	s.trackID = muxer.AddVideoTrack(mp4.MP4_CODEC_H264)
	return nil
}

func (s *MP4Sink) RenderBuffer(data []byte, pts time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muxer == nil {
		return fmt.Errorf("sink not started")
	}

	ts := uint64(pts.Milliseconds())
	if err := s.muxer.Write(s.trackID, data, ts, ts); err != nil {
		return fmt.Errorf("mux frame at %v: %w", pts, err)
	}
	s.frames++
	return nil
}

func (s *MP4Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	return s.file.Sync()
}

// Destroy finalizes the mp4 (moov box) and closes the file.
func (s *MP4Sink) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	trailerErr := s.muxer.WriteTrailer()
	closeErr := s.file.Close()
	s.file = nil
	s.muxer = nil

	if trailerErr != nil {
		return fmt.Errorf("finalize %s: %w", s.path, trailerErr)
	}
	return closeErr
}

// Frames reports how many access units were written so far.
func (s *MP4Sink) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
