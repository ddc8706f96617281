package tts

// PlaybackSession is the set of segments queued by one Start call. The
// controller creates it on Start and drops it on Stop or once the final
// segment resolves; callers only ever see copies.
type PlaybackSession struct {
	generation uint64
	segments   []Segment
	voices     VoiceSelection
	rate       float64
	pitch      float64

	active   int // index of the segment being spoken, -1 between segments
	resolved int // segments that have ended or failed
}

func newPlaybackSession(generation uint64, segments []Segment, voices VoiceSelection, rate, pitch float64) *PlaybackSession {
	return &PlaybackSession{
		generation: generation,
		segments:   segments,
		voices:     voices,
		rate:       rate,
		pitch:      pitch,
		active:     -1,
	}
}

// Generation identifies the session. Callbacks carrying an older generation
// belong to a cancelled session.
func (s *PlaybackSession) Generation() uint64 {
	return s.generation
}

// Len returns the number of queued segments.
func (s *PlaybackSession) Len() int {
	return len(s.segments)
}

// Segments returns a copy of the queued segments in playback order.
func (s *PlaybackSession) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Active returns the index of the segment currently being spoken.
func (s *PlaybackSession) Active() (int, bool) {
	return s.active, s.active >= 0
}

// Resolved returns how many segments have ended or failed.
func (s *PlaybackSession) Resolved() int {
	return s.resolved
}

// Voices returns the voices bound to each language for this session.
func (s *PlaybackSession) Voices() VoiceSelection {
	return s.voices
}

// utterances builds the engine requests for the session. Each callback
// closes over the session generation and the segment index.
func (s *PlaybackSession) utterances(c *Controller) []Utterance {
	out := make([]Utterance, len(s.segments))
	gen := s.generation
	for i, seg := range s.segments {
		index := i
		out[i] = Utterance{
			Text:    seg.Text,
			Voice:   s.voices.For(seg.Language),
			Rate:    s.rate,
			Pitch:   s.pitch,
			OnStart: func() { c.segmentStarted(gen, index) },
			OnEnd:   func() { c.segmentResolved(gen, index, nil) },
			OnError: func(err error) { c.segmentResolved(gen, index, err) },
		}
	}
	return out
}

func (s *PlaybackSession) clone() *PlaybackSession {
	cp := *s
	cp.segments = s.Segments()
	return &cp
}
